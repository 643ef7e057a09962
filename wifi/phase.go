package wifi

// Phase is the driver's position in the associate/connect/request/
// reassemble/close lifecycle. Phases are ordered: everything from
// PhaseConnectedToAP onward counts as associated, which is what
// Connected relies on.
type Phase int

const (
	// Association
	PhaseReset Phase = iota
	PhaseDisableEcho
	PhaseConfigureStation
	PhaseJoiningAccessPoint
	PhaseConnectedToAP
	// HTTP transaction
	PhaseConnectingToServer
	PhasePreparingRequest
	PhaseSendingRequest
	PhaseFirstPacketLength
	PhaseReadingFirstPacket
	PhaseParsingHeader
	PhasePacketLength
	PhaseReadingPacket
	PhaseNextPacket
	PhaseClosingConnection
	PhaseClosingOnFailure
	PhaseComplete
	PhaseFailure
)

// Terminal reports whether the phase ends a transaction.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailure
}

func (p Phase) String() string {
	switch p {
	case PhaseReset:
		return "reset"
	case PhaseDisableEcho:
		return "disable_echo"
	case PhaseConfigureStation:
		return "configure_station"
	case PhaseJoiningAccessPoint:
		return "joining_access_point"
	case PhaseConnectedToAP:
		return "connected_to_ap"
	case PhaseConnectingToServer:
		return "connecting_to_server"
	case PhasePreparingRequest:
		return "preparing_request"
	case PhaseSendingRequest:
		return "sending_request"
	case PhaseFirstPacketLength:
		return "first_packet_length"
	case PhaseReadingFirstPacket:
		return "reading_first_packet"
	case PhaseParsingHeader:
		return "parsing_header"
	case PhasePacketLength:
		return "packet_length"
	case PhaseReadingPacket:
		return "reading_packet"
	case PhaseNextPacket:
		return "next_packet"
	case PhaseClosingConnection:
		return "closing_connection"
	case PhaseClosingOnFailure:
		return "closing_on_failure"
	case PhaseComplete:
		return "complete"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// readMode selects which sub-reader currently owns the transport for
// reading. Only the owning sub-reader is polled, so two sub-readers can
// never consume the stream concurrently.
type readMode int

const (
	readComplete readMode = iota
	readUntilSequence
	readIntoBuffer
	readInteger
)
