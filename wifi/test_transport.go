package wifi

import (
	"context"
	"sync"
)

// TestDialer hands out a prepared TestTransport to New.
// Exported for use in tests.
type TestDialer struct {
	Transport *TestTransport
}

func (d TestDialer) Dial(_ context.Context) (Transport, error) {
	return d.Transport, nil
}

// TestTransport is a scripted, in-memory Transport for tests. Inbound
// bytes are queued with Feed and handed out by Read exactly as a real
// port would: whatever is buffered, never blocking. Everything the
// driver writes is appended to a transcript retrievable with Sent.
// Exported for use in tests.
type TestTransport struct {
	mu sync.Mutex

	rx []byte
	tx []byte

	// BusyPolls makes Busy answer true that many times after each Write,
	// exercising the driver's transmission drain.
	BusyPolls int
	busyLeft  int

	settings   Settings
	configured bool
	writeErr   error
	writes     int
	flushes    int
	closed     bool
}

func NewTestTransport() *TestTransport {
	return &TestTransport{}
}

func (t *TestTransport) Configure(settings Settings) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = settings
	t.configured = true
	return nil
}

func (t *TestTransport) Write(p []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeErr != nil {
		return t.writeErr
	}
	t.tx = append(t.tx, p...)
	t.writes++
	t.busyLeft = t.BusyPolls
	return nil
}

func (t *TestTransport) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.busyLeft > 0 {
		t.busyLeft--
		return true
	}
	return false
}

func (t *TestTransport) Read(p []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := copy(p, t.rx)
	t.rx = t.rx[n:]
	return n
}

func (t *TestTransport) BytesAvailable() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rx)
}

func (t *TestTransport) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rx = nil
	t.flushes++
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Feed queues data for the driver to read, simulating bytes arriving
// from the module.
func (t *TestTransport) Feed(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rx = append(t.rx, data...)
}

// Sent returns everything written so far.
func (t *TestTransport) Sent() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.tx)
}

// Writes returns how many Write calls have been made.
func (t *TestTransport) Writes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writes
}

// FailWrites makes every subsequent Write return err.
func (t *TestTransport) FailWrites(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}

// Configured reports whether Configure ran and with which settings.
func (t *TestTransport) Configured() (Settings, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings, t.configured
}
