package wifi

import (
	"bytes"

	"i4.energy/across/wifigw/at"
)

var (
	statusMarker        = []byte("HTTP/1.1 ")
	contentLengthMarker = []byte("Content-Length: ")
	endOfHeaderMarker   = []byte(at.EndOfHeader)
)

// ResponseHeader is the subset of an HTTP response header the driver
// needs to reassemble a body: status code, declared body length, and the
// byte offset where the body begins. It is created once per transaction
// from the first received chunk and never mutated.
type ResponseHeader struct {
	StatusCode    int
	ContentLength int
	HeaderLength  int
}

// Valid reports whether all three fields were found. Zero anywhere means
// the header was missing a required marker or number.
func (h ResponseHeader) Valid() bool {
	return h.StatusCode != 0 && h.ContentLength != 0 && h.HeaderLength != 0
}

// parseHeader extracts a ResponseHeader from a buffer known to contain a
// complete HTTP response header. Any missing marker or unparsable number
// yields the zero (invalid) header.
//
// The three markers are searched independently of one another, but
// HeaderLength always derives from the blank-line marker. A header whose
// Content-Length field somehow appeared after the blank line would still
// parse, yet the body offset would be wrong; this matches the reference
// behavior and is a documented fragility, not something to fix here.
func parseHeader(buf []byte) ResponseHeader {
	var header ResponseHeader

	i := bytes.Index(buf, statusMarker)
	if i < 0 {
		return ResponseHeader{}
	}
	status, ok := scanDecimal(buf[i+len(statusMarker):])
	if !ok {
		return ResponseHeader{}
	}
	header.StatusCode = status

	i = bytes.Index(buf, contentLengthMarker)
	if i < 0 {
		return ResponseHeader{}
	}
	length, ok := scanDecimal(buf[i+len(contentLengthMarker):])
	if !ok {
		return ResponseHeader{}
	}
	header.ContentLength = length

	i = bytes.Index(buf, endOfHeaderMarker)
	if i < 0 {
		return ResponseHeader{}
	}
	header.HeaderLength = i + len(endOfHeaderMarker)

	return header
}

// scanDecimal parses the run of ASCII digits at the start of buf,
// saturating like integerReader so an absurd Content-Length cannot wrap
// negative.
func scanDecimal(buf []byte) (int, bool) {
	value := 0
	digits := 0
	for _, b := range buf {
		if b < '0' || b > '9' {
			break
		}
		if value < lengthSaturation {
			value = value*10 + int(b-'0')
		}
		digits++
	}
	return value, digits > 0
}
