package wifi

import (
	"strings"
	"testing"
)

func TestParseHeader(t *testing.T) {
	t.Run("complete header", func(t *testing.T) {
		buf := []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nHELLO")

		header := parseHeader(buf)

		if !header.Valid() {
			t.Fatalf("expected valid header, got: %+v", header)
		}
		if header.StatusCode != 200 {
			t.Errorf("status: expected 200, got %d", header.StatusCode)
		}
		if header.ContentLength != 5 {
			t.Errorf("content length: expected 5, got %d", header.ContentLength)
		}
		if got := string(buf[header.HeaderLength:]); got != "HELLO" {
			t.Errorf("body at header length: expected HELLO, got %q", got)
		}
	})

	t.Run("fields found independently of order", func(t *testing.T) {
		buf := []byte("Content-Length: 12\r\nHTTP/1.1 404 Not Found\r\n\r\n")

		header := parseHeader(buf)

		if !header.Valid() {
			t.Fatalf("expected valid header, got: %+v", header)
		}
		if header.StatusCode != 404 {
			t.Errorf("status: expected 404, got %d", header.StatusCode)
		}
		if header.ContentLength != 12 {
			t.Errorf("content length: expected 12, got %d", header.ContentLength)
		}
	})

	t.Run("status code from a larger response", func(t *testing.T) {
		buf := []byte("HTTP/1.1 301 Moved Permanently\r\n" +
			"Location: http://example.com/\r\n" +
			"Content-Length: 219\r\n" +
			"Connection: close\r\n" +
			"\r\n" +
			strings.Repeat("x", 219))

		header := parseHeader(buf)

		if !header.Valid() {
			t.Fatalf("expected valid header, got: %+v", header)
		}
		if header.StatusCode != 301 {
			t.Errorf("status: expected 301, got %d", header.StatusCode)
		}
		if header.ContentLength != 219 {
			t.Errorf("content length: expected 219, got %d", header.ContentLength)
		}
		if got := len(buf) - header.HeaderLength; got != 219 {
			t.Errorf("body length after header: expected 219, got %d", got)
		}
	})

	invalid := []struct {
		name  string
		input string
	}{
		{
			name:  "missing status line",
			input: "Content-Length: 5\r\n\r\nHELLO",
		},
		{
			name:  "missing content length",
			input: "HTTP/1.1 200 OK\r\nConnection: close\r\n\r\nHELLO",
		},
		{
			name:  "missing blank line",
			input: "HTTP/1.1 200 OK\r\nContent-Length: 5\r\nHELLO",
		},
		{
			name:  "unparsable status",
			input: "HTTP/1.1 OK\r\nContent-Length: 5\r\n\r\nHELLO",
		},
		{
			name:  "unparsable content length",
			input: "HTTP/1.1 200 OK\r\nContent-Length: none\r\n\r\nHELLO",
		},
		{
			name:  "empty buffer",
			input: "",
		},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			header := parseHeader([]byte(tc.input))
			if header != (ResponseHeader{}) {
				t.Errorf("expected zero header, got: %+v", header)
			}
			if header.Valid() {
				t.Error("invalid header reported valid")
			}
		})
	}
}

func TestScanDecimal(t *testing.T) {
	tests := []struct {
		input string
		value int
		ok    bool
	}{
		{"200 OK", 200, true},
		{"0045\r", 45, true},
		{"7", 7, true},
		{"x12", 0, false},
		{"", 0, false},
	}

	for _, tc := range tests {
		value, ok := scanDecimal([]byte(tc.input))
		if value != tc.value || ok != tc.ok {
			t.Errorf("scanDecimal(%q) = (%d, %v), expected (%d, %v)",
				tc.input, value, ok, tc.value, tc.ok)
		}
	}

	t.Run("over-long digit run saturates instead of wrapping", func(t *testing.T) {
		value, ok := scanDecimal([]byte("9300000000000000000\r"))
		if !ok {
			t.Fatal("expected a parsed value")
		}
		if value <= 0 {
			t.Errorf("value wrapped negative: %d", value)
		}
	})
}
