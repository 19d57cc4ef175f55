package vacuum

import "testing"

func intPtr(v int) *int { return &v }

func TestDecodeStatus(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantErr   bool
		wantState string
		wantRun   bool
	}{
		{
			name:      "current state",
			payload:   `{"msg":"CURRENT-STATE","time":"2026-10-18T09:00:00Z","state":"FULL_CLEAN_RUNNING","batteryChargeLevel":80,"fullCleanType":"immediate","currentVacuumPowerMode":"halfPower"}`,
			wantState: StateFullCleanRunning,
			wantRun:   true,
		},
		{
			name:      "state change",
			payload:   `{"msg":"STATE-CHANGE","oldstate":"FULL_CLEAN_RUNNING","newstate":"FULL_CLEAN_NEEDS_CHARGE"}`,
			wantState: StateNeedsCharge,
			wantRun:   true,
		},
		{
			name:      "docked",
			payload:   `{"msg":"CURRENT-STATE","state":"INACTIVE_CHARGING"}`,
			wantState: StateInactiveCharging,
		},
		{
			name:      "unknown fields ignored",
			payload:   `{"msg":"CURRENT-STATE","state":"MACHINE_OFF","globalPosition":[1,2]}`,
			wantState: StateMachineOff,
		},
		{name: "missing msg", payload: `{"state":"FULL_CLEAN_RUNNING"}`, wantErr: true},
		{name: "not json", payload: `hello`, wantErr: true},
		{name: "empty", payload: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeStatus([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.CurrentState() != tt.wantState {
				t.Errorf("CurrentState() = %q, want %q", got.CurrentState(), tt.wantState)
			}
			if got.Running() != tt.wantRun {
				t.Errorf("Running() = %v, want %v", got.Running(), tt.wantRun)
			}
		})
	}
}

func TestStatus_Paused(t *testing.T) {
	if !(Status{NewState: StateFullCleanPaused}).Paused() {
		t.Error("paused state not reported as paused")
	}
	if (Status{State: StateFullCleanRunning}).Paused() {
		t.Error("running state reported as paused")
	}
}

func TestStatus_Merge(t *testing.T) {
	prev := Status{
		Msg:                    "CURRENT-STATE",
		State:                  StateInactiveCharged,
		BatteryChargeLevel:     intPtr(100),
		DefaultVacuumPowerMode: "quiet",
	}
	next := Status{
		Msg:      "STATE-CHANGE",
		OldState: StateInactiveCharged,
		NewState: StateFullCleanInit,
		CleanID:  "clean-1",
	}

	merged := prev.Merge(next)

	if merged.Msg != "STATE-CHANGE" {
		t.Errorf("Msg = %q", merged.Msg)
	}
	if merged.State != StateFullCleanInit || merged.NewState != "" {
		t.Errorf("State = %q NewState = %q, want normalised state", merged.State, merged.NewState)
	}
	if merged.BatteryChargeLevel == nil || *merged.BatteryChargeLevel != 100 {
		t.Errorf("BatteryChargeLevel = %v, want kept", merged.BatteryChargeLevel)
	}
	if merged.DefaultVacuumPowerMode != "quiet" || merged.CleanID != "clean-1" {
		t.Errorf("merged = %+v", merged)
	}

	// merge must not alias the caller's battery pointer
	level := intPtr(50)
	again := merged.Merge(Status{Msg: "CURRENT-STATE", BatteryChargeLevel: level})
	*level = 10
	if *again.BatteryChargeLevel != 50 {
		t.Errorf("BatteryChargeLevel = %d, want 50", *again.BatteryChargeLevel)
	}
}
