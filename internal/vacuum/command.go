package vacuum

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Command message names.
const (
	CommandStateSet            = "STATE-SET"
	CommandStart               = "START"
	CommandPause               = "PAUSE"
	CommandResume              = "RESUME"
	CommandAbort               = "ABORT"
	CommandRequestCurrentState = "REQUEST-CURRENT-STATE"
)

// FullCleanImmediate starts a clean now rather than on a schedule.
const FullCleanImmediate = "immediate"

// timeLayout is ISO-8601 in UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Envelope is the JSON document published on the command topic.
type Envelope struct {
	Msg  string `json:"msg"`
	Time string `json:"time"`
	Data any    `json:"data,omitempty"`
}

type stateSetData struct {
	DefaultVacuumPowerMode string `json:"defaultVacuumPowerMode"`
}

type startData struct {
	FullCleanType string `json:"fullCleanType"`
}

// encodeCommand builds the envelope for msg at now.
func encodeCommand(msg string, data any, now time.Time) ([]byte, error) {
	payload, err := json.Marshal(Envelope{
		Msg:  msg,
		Time: now.UTC().Format(timeLayout),
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", msg, err)
	}
	return payload, nil
}

// SetPowerMode sets the robot's default suction power.
//
// Modes outside the model's known list are forwarded unchanged; firmware
// updates have added modes before.
func (s *Session) SetPowerMode(mode string) error {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return ErrInvalidPowerMode
	}
	if !s.info.SupportsPowerMode(mode) {
		s.logger.Debug("power mode not listed for model", "serial", s.serialNumber, "mode", mode, "model", s.info.Model)
	}
	return s.publish(CommandStateSet, stateSetData{DefaultVacuumPowerMode: mode})
}

// StartCleaning starts an immediate full clean.
func (s *Session) StartCleaning() error {
	return s.publish(CommandStart, startData{FullCleanType: FullCleanImmediate})
}

// PauseCleaning pauses the running clean.
func (s *Session) PauseCleaning() error {
	return s.publish(CommandPause, nil)
}

// ResumeCleaning resumes a paused clean.
func (s *Session) ResumeCleaning() error {
	return s.publish(CommandResume, nil)
}

// AbortCleaning ends the clean and sends the robot home.
func (s *Session) AbortCleaning() error {
	return s.publish(CommandAbort, nil)
}

// RequestCurrentState asks the robot to publish a CURRENT-STATE message.
func (s *Session) RequestCurrentState() error {
	return s.publish(CommandRequestCurrentState, nil)
}

// publish sends a command if the session is connected. Delivery failures
// are reported later by the transport, not returned here.
func (s *Session) publish(msg string, data any) error {
	if state := s.State(); state != StateConnected {
		s.logger.Warn("command dropped, device not connected",
			"serial", s.serialNumber,
			"command", msg,
			"state", state.String(),
		)
		return fmt.Errorf("%w: %s", ErrNotConnected, msg)
	}

	payload, err := encodeCommand(msg, data, s.now())
	if err != nil {
		return err
	}

	if err := s.conn.Publish(s.commandTopic, payload, s.qos, false); err != nil {
		s.logger.Warn("command publish failed",
			"serial", s.serialNumber,
			"command", msg,
			"error", err,
		)
		return fmt.Errorf("publishing %s: %w", msg, err)
	}

	s.logger.Debug("command published", "serial", s.serialNumber, "command", msg)
	return nil
}
