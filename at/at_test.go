package at_test

import (
	"testing"

	"i4.energy/across/wifigw/at"
)

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "disable echo",
			got:  at.CmdDisableEcho,
			want: "ATE0\r\n",
		},
		{
			name: "station mode",
			got:  at.CmdStationMode,
			want: "AT+CWMODE=1\r\n",
		},
		{
			name: "close connection",
			got:  at.CmdCloseConnection,
			want: "AT+CIPCLOSE\r\n",
		},
		{
			name: "join access point",
			got:  at.JoinAccessPoint("attic", "hunter2"),
			want: "AT+CWJAP_CUR=\"attic\",\"hunter2\"\r\n",
		},
		{
			name: "open connection",
			got:  at.OpenConnection("example.com", "80"),
			want: "AT+CIPSTART=\"TCP\",\"example.com\",80\r\n",
		},
		{
			name: "send length",
			got:  at.Send(42),
			want: "AT+CIPSEND=42\r\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, tc.got)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	if at.OK != "OK\r\n" {
		t.Errorf("OK token changed: %q", at.OK)
	}
	if at.IPD != "+IPD," {
		t.Errorf("IPD marker changed: %q", at.IPD)
	}
	if at.Ready != "ready\r\n" {
		t.Errorf("ready token changed: %q", at.Ready)
	}
	if at.EndOfHeader != "\r\n\r\n" {
		t.Errorf("end-of-header marker changed: %q", at.EndOfHeader)
	}
}
