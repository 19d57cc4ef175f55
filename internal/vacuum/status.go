package vacuum

import (
	"encoding/json"
	"fmt"
)

// Robot states reported in status messages.
const (
	StateInactiveCharging = "INACTIVE_CHARGING"
	StateInactiveCharged  = "INACTIVE_CHARGED"
	StateFullCleanInit    = "FULL_CLEAN_INITIATED"
	StateFullCleanRunning = "FULL_CLEAN_RUNNING"
	StateFullCleanPaused  = "FULL_CLEAN_PAUSED"
	StateFullCleanAborted = "FULL_CLEAN_ABORTED"
	StateFullCleanDone    = "FULL_CLEAN_FINISHED"
	StateTraversing       = "FULL_CLEAN_TRAVERSING"
	StateDiscovering      = "FULL_CLEAN_DISCOVERING"
	StateNeedsCharge      = "FULL_CLEAN_NEEDS_CHARGE"
	StateCleanCharging    = "FULL_CLEAN_CHARGING"
	StateMachineOff       = "MACHINE_OFF"
)

// runningStates are the states in which a clean is in progress. A robot
// that docks mid-clean to recharge is still cleaning.
var runningStates = map[string]bool{
	StateFullCleanInit:    true,
	StateFullCleanRunning: true,
	StateTraversing:       true,
	StateDiscovering:      true,
	StateNeedsCharge:      true,
	StateCleanCharging:    true,
}

// Status is a decoded status message.
//
// CURRENT-STATE messages carry State; STATE-CHANGE messages carry NewState
// and OldState. Fields the robot did not send are left zero.
type Status struct {
	Msg                    string `json:"msg"`
	Time                   string `json:"time,omitempty"`
	State                  string `json:"state,omitempty"`
	NewState               string `json:"newstate,omitempty"`
	OldState               string `json:"oldstate,omitempty"`
	BatteryChargeLevel     *int   `json:"batteryChargeLevel,omitempty"`
	FullCleanType          string `json:"fullCleanType,omitempty"`
	CleanID                string `json:"cleanId,omitempty"`
	CurrentVacuumPowerMode string `json:"currentVacuumPowerMode,omitempty"`
	DefaultVacuumPowerMode string `json:"defaultVacuumPowerMode,omitempty"`
}

// DecodeStatus parses a status payload. A payload without a msg field is
// rejected.
func DecodeStatus(payload []byte) (Status, error) {
	var s Status
	if err := json.Unmarshal(payload, &s); err != nil {
		return Status{}, fmt.Errorf("decoding status: %w", err)
	}
	if s.Msg == "" {
		return Status{}, fmt.Errorf("decoding status: missing msg field")
	}
	return s, nil
}

// CurrentState returns the robot state the message reports, if any.
func (s Status) CurrentState() string {
	if s.NewState != "" {
		return s.NewState
	}
	return s.State
}

// Running reports whether a clean is in progress.
func (s Status) Running() bool {
	return runningStates[s.CurrentState()]
}

// Paused reports whether a clean is paused and can be resumed.
func (s Status) Paused() bool {
	return s.CurrentState() == StateFullCleanPaused
}

// Merge folds a newer message into s. Fields absent from next keep their
// previous value; the state is normalised into State.
func (s Status) Merge(next Status) Status {
	merged := s
	merged.Msg = next.Msg
	if next.Time != "" {
		merged.Time = next.Time
	}
	if state := next.CurrentState(); state != "" {
		merged.State = state
		merged.NewState = ""
	}
	if next.OldState != "" {
		merged.OldState = next.OldState
	}
	if next.BatteryChargeLevel != nil {
		level := *next.BatteryChargeLevel
		merged.BatteryChargeLevel = &level
	}
	if next.FullCleanType != "" {
		merged.FullCleanType = next.FullCleanType
	}
	if next.CleanID != "" {
		merged.CleanID = next.CleanID
	}
	if next.CurrentVacuumPowerMode != "" {
		merged.CurrentVacuumPowerMode = next.CurrentVacuumPowerMode
	}
	if next.DefaultVacuumPowerMode != "" {
		merged.DefaultVacuumPowerMode = next.DefaultVacuumPowerMode
	}
	return merged
}

// StatusRecorder receives every merged status. Implementations must not
// block; they run on the session's control loop.
type StatusRecorder interface {
	RecordStatus(serialNumber, productType string, status Status)
}
