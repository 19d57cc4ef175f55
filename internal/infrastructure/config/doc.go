// Package config handles loading and validating dysonvac configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//   - Lenient decoding of the vacuum device list
//
// Security Considerations:
//   - Device credentials carry the vacuum's local MQTT password; the config
//     file should have restricted permissions (0600)
//   - The InfluxDB token should be set via DYSONVAC_INFLUXDB_TOKEN
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, entry := range cfg.Platform.Devices.Entries() {
//	    fmt.Println(entry.IPAddress)
//	}
package config
