// Package at holds the ESP8266 AT-command vocabulary: the fixed command
// strings the driver transmits and the confirmation tokens it waits for.
//
// Everything here is plain wire text. The package deliberately knows
// nothing about transports or the driver state machine.
package at

import "fmt"

const (
	// Terminal control
	CRLF = "\r\n"

	// Confirmation tokens
	OK = "OK\r\n"
	// Ready is emitted after a hard reset once the module accepts commands.
	Ready = "ready\r\n"
	// WiFiConnected is emitted once an access-point association has an IP.
	WiFiConnected = "WIFI GOT IP\r\n\r\nOK\r\n"

	// IPD marks each inbound TCP chunk; an ASCII decimal length and a
	// delimiter follow, then exactly that many raw payload bytes.
	IPD = "+IPD,"

	// EndOfHeader separates an HTTP response header from its body.
	EndOfHeader = "\r\n\r\n"
)

const (
	// CmdDisableEcho turns off local command echo.
	CmdDisableEcho = "ATE0\r\n"
	// CmdStationMode puts the module in station (client) mode.
	CmdStationMode = "AT+CWMODE=1\r\n"
	// CmdCloseConnection tears down the current TCP connection.
	CmdCloseConnection = "AT+CIPCLOSE\r\n"
)

// JoinAccessPoint builds the command that associates to an access point.
// SSID and password are embedded in quotes; the module confirms with OK.
func JoinAccessPoint(ssid, password string) string {
	return fmt.Sprintf("AT+CWJAP_CUR=\"%s\",\"%s\"\r\n", ssid, password)
}

// OpenConnection builds the command that opens a plain TCP connection to
// domain:port. TLS variants are not supported.
func OpenConnection(domain, port string) string {
	return fmt.Sprintf("AT+CIPSTART=\"TCP\",\"%s\",%s\r\n", domain, port)
}

// Send builds the command announcing that exactly n raw bytes follow.
func Send(n int) string {
	return fmt.Sprintf("AT+CIPSEND=%d\r\n", n)
}
