package wifi

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
)

var errTest = errors.New("transport broke")

func TestSequenceMatcher(t *testing.T) {
	t.Run("sends command once and finds target after noise", func(t *testing.T) {
		transport := NewTestTransport()
		m := sequenceMatcher{transport: transport}
		m.arm([]byte("ATE0\r\n"), []byte("OK\r\n"))

		transport.Feed("junk OK\r\n")

		done := false
		for i := 0; i < 64 && !done; i++ {
			var err error
			done, err = m.poll()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if !done {
			t.Error("matcher never completed")
		}
		if got := transport.Sent(); got != "ATE0\r\n" {
			t.Errorf("expected single command write, got: %q", got)
		}
		if transport.Writes() != 1 {
			t.Errorf("expected exactly one write, got: %d", transport.Writes())
		}
	})

	t.Run("stays done once done", func(t *testing.T) {
		transport := NewTestTransport()
		m := sequenceMatcher{transport: transport}
		m.arm(nil, []byte("OK"))
		transport.Feed("OK extra")

		done := false
		for i := 0; i < 8 && !done; i++ {
			done, _ = m.poll()
		}
		if !done {
			t.Fatal("matcher never completed")
		}

		// Completed matcher must not consume further bytes.
		before := transport.BytesAvailable()
		if done, _ := m.poll(); !done {
			t.Error("matcher forgot it was done")
		}
		if transport.BytesAvailable() != before {
			t.Error("completed matcher consumed a byte")
		}
	})

	t.Run("mismatch resets search without carry-over", func(t *testing.T) {
		transport := NewTestTransport()
		m := sequenceMatcher{transport: transport}
		m.arm(nil, []byte("ab"))

		// The second 'a' resets the search but is not itself retried
		// against the target's first byte, so "aab" never matches.
		transport.Feed("aab")
		for i := 0; i < 16; i++ {
			if done, _ := m.poll(); done {
				t.Fatal("matcher should not have completed on aab")
			}
		}

		// A clean occurrence afterwards still matches.
		transport.Feed("xab")
		done := false
		for i := 0; i < 16 && !done; i++ {
			done, _ = m.poll()
		}
		if !done {
			t.Error("matcher never found the clean occurrence")
		}
	})

	t.Run("empty target is immediately done", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTransport := NewMockTransport(ctrl)
		m := sequenceMatcher{transport: mockTransport}
		m.arm([]byte("ATE0\r\n"), nil)

		// No Write, Read, or BytesAvailable expectations: an empty
		// target completes without touching the transport.
		if done, err := m.poll(); !done || err != nil {
			t.Errorf("expected immediate done, got done=%v err=%v", done, err)
		}
	})

	t.Run("empty command never invokes a write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTransport := NewMockTransport(ctrl)
		mockTransport.EXPECT().BytesAvailable().Return(0).AnyTimes()

		m := sequenceMatcher{transport: mockTransport}
		m.arm(nil, []byte("OK\r\n"))

		for i := 0; i < 8; i++ {
			if done, _ := m.poll(); done {
				t.Fatal("matcher completed without input")
			}
		}
	})

	t.Run("drains the busy flag after writing", func(t *testing.T) {
		transport := NewTestTransport()
		transport.BusyPolls = 5

		m := sequenceMatcher{transport: transport}
		m.arm([]byte("AT+CWMODE=1\r\n"), []byte("OK\r\n"))

		if done, err := m.poll(); done || err != nil {
			t.Fatalf("unexpected first poll result: done=%v err=%v", done, err)
		}
		if transport.Busy() {
			t.Error("transmission not drained after first poll")
		}
	})
}

func TestChunkReader(t *testing.T) {
	t.Run("fills window across uneven availability", func(t *testing.T) {
		transport := NewTestTransport()
		r := chunkReader{transport: transport}

		window := make([]byte, 10)
		r.arm(window)

		if r.poll() {
			t.Fatal("done with no bytes available")
		}

		transport.Feed("abcd")
		if r.poll() {
			t.Fatal("done after partial fill")
		}

		transport.Feed("efghij leftover")
		if !r.poll() {
			t.Fatal("not done after window filled")
		}

		if got := string(window); got != "abcdefghij" {
			t.Errorf("window content mismatch: %q", got)
		}
		// Bytes past the window stay in the transport.
		if transport.BytesAvailable() != len(" leftover") {
			t.Errorf("reader overconsumed, %d bytes left", transport.BytesAvailable())
		}
	})

	t.Run("zero-length window is done without transport interaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTransport := NewMockTransport(ctrl)
		r := chunkReader{transport: mockTransport}
		r.arm(nil)

		if !r.poll() {
			t.Error("zero-length window should be immediately done")
		}
	})
}

func TestIntegerReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value int
	}{
		{name: "comma-terminated", input: "1234,", value: 1234},
		{name: "leading zeros", input: "0045\r", value: 45},
		{name: "colon delimiter", input: "1460:", value: 1460},
		{name: "stray bytes before the integer are skipped", input: "+IPD,209:", value: 209},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transport := NewTestTransport()
			r := integerReader{transport: transport}
			r.arm()
			transport.Feed(tc.input)

			done := false
			for i := 0; i < len(tc.input)+2 && !done; i++ {
				done = r.poll()
			}
			if !done {
				t.Fatal("reader never completed")
			}
			if r.value() != tc.value {
				t.Errorf("expected %d, got: %d", tc.value, r.value())
			}
			// The terminating byte is consumed, not pushed back.
			if transport.BytesAvailable() != 0 {
				t.Errorf("delimiter left in stream, %d bytes remain", transport.BytesAvailable())
			}
		})
	}

	t.Run("over-long digit run saturates instead of wrapping", func(t *testing.T) {
		transport := NewTestTransport()
		r := integerReader{transport: transport}
		r.arm()
		transport.Feed("9300000000000000000:")

		done := false
		for i := 0; i < 32 && !done; i++ {
			done = r.poll()
		}
		if !done {
			t.Fatal("reader never completed")
		}
		if r.value() <= 0 {
			t.Errorf("accumulator wrapped negative: %d", r.value())
		}
	})

	t.Run("never completes without a digit", func(t *testing.T) {
		transport := NewTestTransport()
		r := integerReader{transport: transport}
		r.arm()
		transport.Feed(",,;xyz")

		for i := 0; i < 32; i++ {
			if r.poll() {
				t.Fatal("completed with no digit seen")
			}
		}
	})

	t.Run("arm restarts accumulation", func(t *testing.T) {
		transport := NewTestTransport()
		r := integerReader{transport: transport}

		r.arm()
		transport.Feed("12,")
		for i := 0; i < 8; i++ {
			r.poll()
		}
		if r.value() != 12 {
			t.Fatalf("first read: expected 12, got %d", r.value())
		}

		r.arm()
		transport.Feed("7;")
		done := false
		for i := 0; i < 8 && !done; i++ {
			done = r.poll()
		}
		if !done || r.value() != 7 {
			t.Errorf("second read: expected 7, got %d (done=%v)", r.value(), done)
		}
	})
}

func TestTransmit(t *testing.T) {
	t.Run("write error propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTransport := NewMockTransport(ctrl)
		wantErr := errTest
		mockTransport.EXPECT().Write([]byte("AT\r\n")).Return(wantErr)

		if err := transmit(mockTransport, []byte("AT\r\n")); err != wantErr {
			t.Errorf("expected write error, got: %v", err)
		}
	})
}
