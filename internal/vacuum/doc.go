// Package vacuum implements the session that controls one Dyson robot
// vacuum over its local MQTT broker.
//
// A Session owns the robot's connection, turns the high-level commands
// (start, pause, resume, abort, power mode) into the robot's JSON command
// envelope, and decodes the status messages the robot publishes.
//
// # Event model
//
// Transport callbacks never touch session state. They post events onto a
// buffered channel that a single control-loop goroutine per session
// consumes; that goroutine owns every connection-state transition.
//
//	paho goroutines ──events──▶ control loop ──▶ state, accessory, recorder
//
// # Usage
//
//	s, err := vacuum.New(vacuum.Params{
//	    SerialNumber: "JH1-EU-ABC1234A",
//	    ProductType:  "276",
//	    Password:     localCredentials,
//	    IPAddress:    "192.168.1.50",
//	}, vacuum.Deps{Host: host, Logger: log})
//	if err != nil {
//	    return err
//	}
//	defer s.Shutdown()
//
//	if err := s.StartCleaning(); err != nil {
//	    log.Warn("start rejected", "error", err)
//	}
package vacuum
