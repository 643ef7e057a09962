package wifi

import "fmt"

// Method is the HTTP request method. The full set is representable, but
// request formatting currently renders GET only; most servers this
// driver talks to ignore the rest anyway.
type Method int

const (
	MethodGet Method = iota
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodConnect
	MethodOptions
	MethodTrace
	MethodPatch
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	case MethodConnect:
		return "CONNECT"
	case MethodOptions:
		return "OPTIONS"
	case MethodTrace:
		return "TRACE"
	case MethodPatch:
		return "PATCH"
	default:
		return "UNKNOWN"
	}
}

// Request describes one HTTP transaction. It is immutable for the
// duration of the transaction once handed to the driver.
type Request struct {
	// Domain is the server name without scheme or "www", e.g.
	// "example.com".
	Domain string
	// Path is the resource within the domain, query string included.
	// Defaults to "/".
	Path string
	// Method selects the HTTP method. Only GET is formatted today.
	Method Method
	// Body is appended after the headers when non-empty, typically for
	// POST requests.
	Body []byte
	// Port is the server port as text. Defaults to "80".
	Port string
}

func (r *Request) setDefaults() {
	if r.Path == "" {
		r.Path = "/"
	}
	if r.Port == "" {
		r.Port = "80"
	}
}

// formatRequest renders the outgoing request text into dst and returns
// the number of bytes written. The destination is the response buffer,
// borrowed as scratch space until the request has been transmitted.
func formatRequest(dst []byte, req Request) (int, error) {
	text := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s:%s\r\n\r\n\r\n",
		req.Path, req.Domain, req.Port)

	total := len(text) + len(req.Body)
	if total > len(dst) || total > MaxTransmitSize {
		return 0, ErrRequestTooLarge
	}

	n := copy(dst, text)
	n += copy(dst[n:], req.Body)
	return n, nil
}
