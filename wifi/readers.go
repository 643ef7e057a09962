package wifi

import "runtime"

// The three sub-readers below are the only consumers of the transport's
// inbound stream. Exactly one of them is active at a time, selected by
// the driver's read mode, and each is advanced by at most one unit of
// work per poll so the caller's poll cadence bounds all progress.

// transmit starts a write and drains the transport's busy flag. This is
// the driver's single permitted blocking wait, bounded by hardware
// transmission of a short command string.
func transmit(t Transport, p []byte) error {
	if err := t.Write(p); err != nil {
		return err
	}
	for t.Busy() {
		runtime.Gosched()
	}
	return nil
}

// sequenceMatcher transmits a fixed command once, then consumes inbound
// bytes one at a time looking for a target sequence anywhere in the
// stream.
type sequenceMatcher struct {
	transport Transport
	command   []byte
	target    []byte
	index     int
	sent      bool
}

// arm resets the search and records what to send. An empty command means
// "send nothing, just search".
func (m *sequenceMatcher) arm(command, target []byte) {
	m.command = command
	m.target = target
	m.index = 0
	m.sent = false
}

// poll sends the pending command on its first call and thereafter
// consumes at most one available byte. A mismatch resets the search to
// the start of the target; there is no partial-match carry-over.
func (m *sequenceMatcher) poll() (bool, error) {
	if m.index == len(m.target) {
		return true, nil
	}

	if !m.sent {
		if len(m.command) > 0 {
			if err := transmit(m.transport, m.command); err != nil {
				return false, err
			}
		}
		m.sent = true
	}

	if m.transport.BytesAvailable() >= 1 {
		var buf [1]byte
		if m.transport.Read(buf[:]) == 1 {
			if buf[0] == m.target[m.index] {
				m.index++
			} else {
				m.index = 0
			}
		}
	}

	return m.index == len(m.target), nil
}

// chunkReader copies exactly len(window) bytes from the transport into a
// caller-assigned window, across however many polls that takes.
type chunkReader struct {
	transport Transport
	window    []byte
	filled    int
}

func (r *chunkReader) arm(window []byte) {
	r.window = window
	r.filled = 0
}

// poll copies as many currently-available bytes as fit in the remaining
// window. Done when the window is full; a zero-length window is done
// without touching the transport.
func (r *chunkReader) poll() bool {
	if r.filled == len(r.window) {
		return true
	}
	r.filled += r.transport.Read(r.window[r.filled:])
	return r.filled == len(r.window)
}

// Lengths on the wire are at most four digits. Accumulation saturates
// well above that so a garbled or hostile digit run can never wrap the
// accumulator negative; callers clamp the value to their buffers.
const lengthSaturation = 1 << 20

// integerReader accumulates ASCII digits into a decimal value and
// completes on the first non-digit after at least one digit. That
// terminating byte is consumed and discarded; it is expected to be the
// protocol's delimiter and is not validated. Non-digits arriving before
// the first digit are stray bytes and are skipped, which is also what
// lets the reader eat the "+IPD," prefix of follow-up chunks.
type integerReader struct {
	transport  Transport
	accum      int
	foundDigit bool
	finished   bool
}

func (r *integerReader) arm() {
	r.accum = 0
	r.foundDigit = false
	r.finished = false
}

func (r *integerReader) poll() bool {
	if r.finished {
		return true
	}
	if r.transport.BytesAvailable() >= 1 {
		var buf [1]byte
		if r.transport.Read(buf[:]) == 1 {
			switch b := buf[0]; {
			case b >= '0' && b <= '9':
				if r.accum < lengthSaturation {
					r.accum = r.accum*10 + int(b-'0')
				}
				r.foundDigit = true
			case r.foundDigit:
				r.finished = true
			}
		}
	}
	return r.finished
}

// value is valid only once poll has reported done.
func (r *integerReader) value() int {
	return r.accum
}
