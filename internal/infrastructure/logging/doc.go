// Package logging provides structured logging for dysonvac.
//
// It wraps log/slog. Production runs log JSON; text is for a terminal.
// Every entry carries the service name and build version. Device sessions
// add the vacuum's serial number to each entry themselves, so a serial
// attribute appears once per line.
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8080)
//	logger.Error("failed to connect", "error", err)
//	logger.With("component", "vacuum").Info("connected", "serial", "JH1-US-HBB1111A")
//
// # Security
//
// Attributes named password, credentials, localCredentials or token are
// replaced with "[REDACTED]" by the handler, whoever logs them. Serial
// numbers are identifiers, not secrets, and are logged freely.
package logging
