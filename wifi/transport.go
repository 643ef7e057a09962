package wifi

import "context"

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=wifi

// Parity is the serial frame parity mode.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// StopBits is the number of serial stop bits per frame.
type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsTwo
)

// Settings describes the serial line configuration applied to the
// transport once, during driver construction.
type Settings struct {
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits StopBits
}

// DefaultSettings returns the line configuration the ESP8266 ships with.
func DefaultSettings() Settings {
	return Settings{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   ParityNone,
		StopBits: StopBitsOne,
	}
}

// Transport is a non-blocking, byte-oriented serial link to the radio
// module.
//
// The contract differs from io.ReadWriter on purpose: the driver is
// cooperatively polled and must never wait for bytes that have not
// arrived, so Read copies only what is already buffered and Write starts
// a transmission without waiting for it to drain. Busy reports whether a
// previously started write is still in flight. Typical implementations
// are a serial port adapter or an in-memory script used in tests.
type Transport interface {
	// Configure applies the serial line settings. Called once by the
	// driver before any traffic.
	Configure(settings Settings) error

	// Write starts transmitting p and returns without waiting for the
	// transmission to complete.
	Write(p []byte) error

	// Busy reports whether a previously started write is still in flight.
	Busy() bool

	// Read copies up to len(p) already-buffered inbound bytes into p and
	// returns how many were copied. It never blocks; zero means no bytes
	// were available.
	Read(p []byte) int

	// BytesAvailable returns the count of buffered inbound bytes ready to
	// be read.
	BytesAvailable() int

	// Flush discards any buffered inbound bytes.
	Flush()

	// Close releases the underlying link.
	Close() error
}

// Dialer opens a Transport to the radio module.
//
// Dialer abstracts how the link is created (serial port, emulator, test
// double) and is used during driver construction only. Once a Transport
// is obtained, the Dialer is no longer needed.
type Dialer interface {
	// Dial creates and returns a connected Transport. It may block and
	// should respect cancellation via the context.
	Dial(ctx context.Context) (Transport, error)
}
