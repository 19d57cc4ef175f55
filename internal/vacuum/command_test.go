package vacuum

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeCommand(t *testing.T) {
	// local time zones must be converted to UTC
	now := time.Date(2026, 10, 18, 11, 30, 15, 123_456_789, time.FixedZone("CEST", 2*60*60))

	tests := []struct {
		name string
		msg  string
		data any
		want string
	}{
		{
			name: "no data",
			msg:  CommandPause,
			want: `{"msg":"PAUSE","time":"2026-10-18T09:30:15.123Z"}`,
		},
		{
			name: "state set",
			msg:  CommandStateSet,
			data: stateSetData{DefaultVacuumPowerMode: "halfPower"},
			want: `{"msg":"STATE-SET","time":"2026-10-18T09:30:15.123Z","data":{"defaultVacuumPowerMode":"halfPower"}}`,
		},
		{
			name: "start",
			msg:  CommandStart,
			data: startData{FullCleanType: FullCleanImmediate},
			want: `{"msg":"START","time":"2026-10-18T09:30:15.123Z","data":{"fullCleanType":"immediate"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeCommand(tt.msg, tt.data, now)
			if err != nil {
				t.Fatalf("encodeCommand() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("encodeCommand() = %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestSession_Commands(t *testing.T) {
	tests := []struct {
		name    string
		send    func(*Session) error
		wantMsg string
	}{
		{"pause", (*Session).PauseCleaning, CommandPause},
		{"resume", (*Session).ResumeCleaning, CommandResume},
		{"abort", (*Session).AbortCleaning, CommandAbort},
		{"request state", (*Session).RequestCurrentState, CommandRequestCurrentState},
		{"start", (*Session).StartCleaning, CommandStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSession(t, testParams(), nil)
			ts.connect(t)

			if err := tt.send(ts.Session); err != nil {
				t.Fatalf("command error = %v", err)
			}

			pubs := ts.conn.Published()
			last := pubs[len(pubs)-1]
			if last.topic != "N223/S1/command" {
				t.Errorf("topic = %q", last.topic)
			}
			env := decodeEnvelope(t, last.payload)
			if env["msg"] != tt.wantMsg {
				t.Errorf("msg = %v, want %s", env["msg"], tt.wantMsg)
			}
			if env["time"] != "2026-10-18T09:30:15.123Z" {
				t.Errorf("time = %v", env["time"])
			}
		})
	}
}

func TestSession_SetPowerMode(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		wantErr   error
		wantDebug int
	}{
		{name: "listed mode", mode: "fullPower"},
		{name: "unlisted mode forwarded", mode: "max", wantDebug: 1},
		{name: "empty", mode: "", wantErr: ErrInvalidPowerMode},
		{name: "blank", mode: "   ", wantErr: ErrInvalidPowerMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSession(t, testParams(), nil)
			ts.connect(t)
			before := len(ts.conn.Published())

			err := ts.SetPowerMode(tt.mode)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetPowerMode() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if n := len(ts.conn.Published()); n != before {
					t.Errorf("published despite invalid mode")
				}
				return
			}

			pubs := ts.conn.Published()
			env := decodeEnvelope(t, pubs[len(pubs)-1].payload)
			data, _ := env["data"].(map[string]any)
			if env["msg"] != CommandStateSet || data["defaultVacuumPowerMode"] != tt.mode {
				t.Errorf("envelope = %v", env)
			}
			if n := ts.logger.count("debug", "power mode not listed for model"); n != tt.wantDebug {
				t.Errorf("unlisted-mode debug logs = %d, want %d", n, tt.wantDebug)
			}
		})
	}
}
