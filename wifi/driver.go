// Package wifi drives an ESP8266 radio module over a serial link,
// turning it into a WiFi-connected HTTP client. The driver speaks the
// module's AT-command protocol, associates to an access point, opens a
// TCP connection, issues one GET request, and reassembles the possibly
// multi-chunk response into a fixed-size buffer.
//
// The driver is non-blocking: all progress happens inside GetStatus,
// which advances the protocol by at most one unit of work per call and
// never waits for bytes that have not arrived. The caller owns the poll
// cadence and is responsible for its own staleness timeout (the same
// phase returned across many polls means the module went quiet).
package wifi

import (
	"context"
	"fmt"

	"i4.energy/across/wifigw/at"
)

const (
	// MaxPacketSize is the largest inbound chunk the module delivers per
	// +IPD notification.
	MaxPacketSize = 1460
	// MaxTransmitSize is the largest packet the module accepts for
	// transmission in one CIPSEND.
	MaxTransmitSize = 2048
)

// Driver is the protocol sequencer. It owns the transport and hands it
// to one sub-reader at a time; it is designed for exclusive ownership by
// a single control loop and is not safe for concurrent use.
type Driver struct {
	transport Transport
	config    Config

	ssid     string
	password string

	request    Request
	header     ResponseHeader
	requestLen int

	phase Phase
	next  Phase
	mode  readMode

	matcher sequenceMatcher
	chunk   chunkReader
	integer integerReader

	// packet is the fixed arena one inbound chunk lands in, reused for
	// every chunk of a transaction.
	packet []byte
	// response is the driver-owned buffer the reassembled body ends up
	// in. It transiently holds the outgoing request text as well.
	response    []byte
	responsePos int
	// firstLen and lastChunk remember the armed window sizes so phase
	// entry logic can run after the sub-reader has been re-armed.
	firstLen  int
	lastChunk int

	err    error
	closed bool
}

// New dials the transport, applies the serial line settings, and returns
// a driver parked in the reset phase. Association begins on the first
// GetStatus call.
func New(ctx context.Context, config Config) (*Driver, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	if err := transport.Configure(config.Settings); err != nil {
		transport.Close()
		return nil, fmt.Errorf("configure serial line: %w", err)
	}
	transport.Flush()

	d := &Driver{
		transport: transport,
		config:    config,
		ssid:      config.SSID,
		password:  config.Password,
		phase:     PhaseReset,
		next:      PhaseReset,
		mode:      readComplete,
		packet:    make([]byte, MaxPacketSize),
		response:  make([]byte, config.ResponseBufferSize),
	}
	d.matcher.transport = transport
	d.chunk.transport = transport
	d.integer.transport = transport

	return d, nil
}

// GetStatus is the single polling entry point. Each call advances the
// active sub-reader by at most one unit of work; when that sub-reader
// reports done, the next call moves the phase forward and arms the next
// one. It returns the current phase so the caller can watch for
// staleness.
func (d *Driver) GetStatus() Phase {
	if d.phase == PhaseReset {
		d.enterPhase()
	}

	switch d.mode {
	case readUntilSequence:
		done, err := d.matcher.poll()
		if err != nil {
			d.fail(err)
			break
		}
		if done {
			d.mode = readComplete
		}
	case readIntoBuffer:
		if d.chunk.poll() {
			d.mode = readComplete
		}
	case readInteger:
		if d.integer.poll() {
			d.mode = readComplete
		}
	case readComplete:
		d.phase = d.next
		d.enterPhase()
	}

	return d.phase
}

// Connected reports whether an access-point association has been
// reached. Every phase from PhaseConnectedToAP on counts, terminal
// phases of later transactions included.
func (d *Driver) Connected() bool {
	return d.phase >= PhaseConnectedToAP
}

// Request starts an HTTP transaction, cancelling whatever was in flight:
// any active sub-reader is discarded and the phase jumps straight to
// connecting_to_server. Progress the transaction by calling GetStatus
// until it reports PhaseComplete or PhaseFailure.
func (d *Driver) Request(req Request) {
	req.setDefaults()
	d.request = req
	d.err = nil
	d.header = ResponseHeader{}
	d.responsePos = 0
	d.mode = readComplete
	d.phase = PhaseConnectingToServer
	d.next = PhaseConnectingToServer
	d.enterPhase()
}

// ChangeAccessPoint swaps the stored credentials and forces the join
// command to be re-issued on the next poll cycle. Any latched failure
// from an earlier transaction is cleared.
//
// Known gap, kept from the reference behavior: an in-flight TCP
// connection is not closed first, the driver simply re-associates over
// it. Callers that need a clean teardown should let the current
// transaction reach a terminal phase before switching networks.
func (d *Driver) ChangeAccessPoint(ssid, password string) {
	d.ssid = ssid
	d.password = password
	d.err = nil
	d.mode = readComplete
	d.next = PhaseJoiningAccessPoint
}

// Response exposes the populated region of the response buffer. It
// returns nil unless the phase is PhaseComplete; before that the buffer
// contents are undefined.
func (d *Driver) Response() []byte {
	if d.phase != PhaseComplete {
		return nil
	}
	return d.response[:d.header.ContentLength]
}

// Header returns the parsed response header of the completed
// transaction. Valid only once the phase is PhaseComplete.
func (d *Driver) Header() ResponseHeader {
	return d.header
}

// Err reports why the last transaction ended in PhaseFailure: one of
// ErrRequestTooLarge, ErrMalformedHeader, ErrResponseTooLarge, or a
// latched transport write error. Nil while no failure has occurred.
func (d *Driver) Err() error {
	return d.err
}

// Close releases the transport. The driver cannot be reused afterwards.
func (d *Driver) Close() error {
	if d.closed {
		return ErrAlreadyClosed
	}
	d.closed = true
	if d.transport != nil {
		return d.transport.Close()
	}
	return nil
}

// send flushes stale inbound bytes and transmits a command, draining the
// transport's busy flag. Used for commands whose confirmation is armed
// separately.
func (d *Driver) send(p []byte) error {
	d.transport.Flush()
	return transmit(d.transport, p)
}

// fail latches a transport-level error and parks the machine in the
// failure phase without attempting the close command; a transport that
// cannot even accept a write has nothing left to close cleanly.
func (d *Driver) fail(err error) {
	d.err = err
	d.phase = PhaseFailure
	d.next = PhaseFailure
	d.mode = readComplete
}

// enterPhase runs the entry action for the current phase: it sends or
// arms whatever that phase needs and records the phase to move to once
// the armed sub-reader completes. The switch is exhaustive over the
// phase enumeration; idle and terminal phases deliberately arm nothing,
// which keeps the machine parked there until an external operation
// forces a jump.
func (d *Driver) enterPhase() {
	switch d.phase {
	case PhaseReset:
		d.next = PhaseDisableEcho

	case PhaseDisableEcho:
		d.matcher.arm([]byte(at.CmdDisableEcho), []byte(at.OK))
		d.next = PhaseConfigureStation
		d.mode = readUntilSequence

	case PhaseConfigureStation:
		d.matcher.arm([]byte(at.CmdStationMode), []byte(at.OK))
		d.next = PhaseJoiningAccessPoint
		d.mode = readUntilSequence

	case PhaseJoiningAccessPoint:
		d.transport.Flush()
		d.matcher.arm([]byte(at.JoinAccessPoint(d.ssid, d.password)), []byte(at.OK))
		d.next = PhaseConnectedToAP
		d.mode = readUntilSequence

	case PhaseConnectedToAP:
		// Idle. Holds until Request forces the jump to the server phases.

	case PhaseConnectingToServer:
		d.transport.Flush()
		d.matcher.arm([]byte(at.OpenConnection(d.request.Domain, d.request.Port)), []byte(at.OK))
		d.next = PhasePreparingRequest
		d.mode = readUntilSequence

	case PhasePreparingRequest:
		n, err := formatRequest(d.response, d.request)
		if err != nil {
			d.err = err
			d.next = PhaseClosingOnFailure
			break
		}
		d.requestLen = n

		if err := d.send([]byte(at.Send(n))); err != nil {
			d.fail(err)
			break
		}
		d.matcher.arm(nil, []byte(at.OK))
		d.next = PhaseSendingRequest
		d.mode = readUntilSequence

	case PhaseSendingRequest:
		// The formatted request is the matcher's command; the module
		// answers the transmitted payload with the first +IPD marker.
		d.matcher.arm(d.response[:d.requestLen], []byte(at.IPD))
		d.next = PhaseFirstPacketLength
		d.mode = readUntilSequence

	case PhaseFirstPacketLength:
		d.integer.arm()
		d.next = PhaseReadingFirstPacket
		d.mode = readInteger

	case PhaseReadingFirstPacket:
		d.firstLen = min(d.integer.value(), MaxPacketSize)
		d.chunk.arm(d.packet[:d.firstLen])
		d.next = PhaseParsingHeader
		d.mode = readIntoBuffer

	case PhaseParsingHeader:
		d.header = parseHeader(d.packet[:d.firstLen])
		switch {
		case !d.header.Valid():
			d.err = ErrMalformedHeader
			d.next = PhaseClosingOnFailure
		case d.header.ContentLength > len(d.response):
			d.err = ErrResponseTooLarge
			d.next = PhaseClosingOnFailure
		case d.header.HeaderLength+d.header.ContentLength <= d.firstLen:
			// The whole body arrived with the header.
			copy(d.response, d.packet[d.header.HeaderLength:d.header.HeaderLength+d.header.ContentLength])
			d.next = PhaseClosingConnection
		default:
			// Keep the body prefix already in hand, then pull the rest
			// chunk by chunk.
			copy(d.response, d.packet[d.header.HeaderLength:d.firstLen])
			d.responsePos = d.firstLen - d.header.HeaderLength
			d.next = PhasePacketLength
		}

	case PhasePacketLength:
		d.integer.arm()
		d.next = PhaseReadingPacket
		d.mode = readInteger

	case PhaseReadingPacket:
		// Clamp at the buffer's end: a server sending more than its
		// declared Content-Length must never overflow the response.
		end := min(d.responsePos+d.integer.value(), len(d.response))
		d.lastChunk = end - d.responsePos
		d.chunk.arm(d.response[d.responsePos:end])
		d.next = PhaseNextPacket
		d.mode = readIntoBuffer

	case PhaseNextPacket:
		d.responsePos += d.lastChunk
		if d.responsePos >= d.header.ContentLength {
			d.next = PhaseClosingConnection
		} else {
			d.next = PhasePacketLength
		}

	case PhaseClosingConnection:
		d.matcher.arm([]byte(at.CmdCloseConnection), []byte(at.OK))
		d.next = PhaseComplete
		d.mode = readUntilSequence

	case PhaseClosingOnFailure:
		d.matcher.arm([]byte(at.CmdCloseConnection), []byte(at.OK))
		d.next = PhaseFailure
		d.mode = readUntilSequence

	case PhaseComplete:
		// Terminal. Response is readable until the next Request.

	case PhaseFailure:
		// Terminal. Err reports what went wrong.
	}
}
