package wifi

import "errors"

var (
	// ErrNoDialer is returned when a Driver is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order
	// to establish a connection to the radio module.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNoCredentials is returned when a Driver is constructed without an
	// access-point SSID.
	ErrNoCredentials = errors.New("no access point SSID configured")

	// ErrNotInitialized is returned when an operation is attempted on a
	// Driver whose transport was never established.
	ErrNotInitialized = errors.New("driver not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Driver that
	// has already been closed.
	ErrAlreadyClosed = errors.New("driver already closed")

	// ErrRequestTooLarge is the transaction error when the formatted
	// request text does not fit the response buffer (which doubles as the
	// outgoing request scratch space) or exceeds the module's maximum
	// transmit packet size.
	ErrRequestTooLarge = errors.New("formatted request exceeds buffer")

	// ErrMalformedHeader is the transaction error when the first received
	// chunk is missing the status line, the Content-Length field, or the
	// header/body boundary.
	ErrMalformedHeader = errors.New("malformed response header")

	// ErrResponseTooLarge is the transaction error when the declared
	// Content-Length exceeds the response buffer's capacity.
	ErrResponseTooLarge = errors.New("response exceeds buffer")
)
