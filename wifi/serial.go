package wifi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// SerialDialer opens the radio module over a local serial port using
// go.bug.st/serial.
type SerialDialer struct {
	// PortName is the device path, e.g. "/dev/ttyUSB0".
	PortName string
	// Mode optionally overrides the mode the port is opened with. The
	// driver re-applies its own Settings through Configure afterwards,
	// so this matters only for ports that reject opening at defaults.
	Mode *serial.Mode
}

// Dial opens the serial port and wraps it in a Transport that satisfies
// the driver's non-blocking contract.
func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("wifi: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("wifi: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		mode = toSerialMode(DefaultSettings())
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", d.PortName, err)
	}

	return newSerialTransport(port), nil
}

// serialTransport adapts a blocking serial.Port to the non-blocking
// Transport contract. A single fill goroutine is the only reader of the
// port; it appends into a mutex-guarded buffer that Read and
// BytesAvailable consult without ever blocking.
type serialTransport struct {
	port serial.Port

	mu  sync.Mutex
	buf []byte
	err error // first read error from the fill goroutine
}

func newSerialTransport(port serial.Port) *serialTransport {
	t := &serialTransport{port: port}
	go t.fill()
	return t
}

func (t *serialTransport) fill() {
	chunk := make([]byte, 256)
	for {
		n, err := t.port.Read(chunk)
		t.mu.Lock()
		if n > 0 {
			t.buf = append(t.buf, chunk[:n]...)
		}
		if err != nil {
			t.err = err
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
	}
}

func (t *serialTransport) Configure(settings Settings) error {
	return t.port.SetMode(toSerialMode(settings))
}

// Write hands the bytes to the kernel before returning, so nothing is
// ever left "in flight" from the driver's point of view and Busy can
// answer false unconditionally.
func (t *serialTransport) Write(p []byte) error {
	_, err := t.port.Write(p)
	return err
}

func (t *serialTransport) Busy() bool {
	return false
}

func (t *serialTransport) Read(p []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := copy(p, t.buf)
	t.buf = t.buf[n:]
	return n
}

func (t *serialTransport) BytesAvailable() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buf)
}

func (t *serialTransport) Flush() {
	t.mu.Lock()
	t.buf = nil
	t.mu.Unlock()
	t.port.ResetInputBuffer()
}

func (t *serialTransport) Close() error {
	// Closing the port also unblocks the fill goroutine's pending Read.
	return t.port.Close()
}

func toSerialMode(s Settings) *serial.Mode {
	mode := &serial.Mode{
		BaudRate: s.BaudRate,
		DataBits: s.DataBits,
	}
	switch s.Parity {
	case ParityOdd:
		mode.Parity = serial.OddParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}
	switch s.StopBits {
	case StopBitsTwo:
		mode.StopBits = serial.TwoStopBits
	default:
		mode.StopBits = serial.OneStopBit
	}
	return mode
}
