// Package metrics exposes vacuum telemetry for Prometheus scraping.
//
// It keeps its own registry, so only dysonvac series are served:
//
//	dysonvac_status_messages_total{serial,product_type}
//	dysonvac_vacuum_running{serial,product_type}
//	dysonvac_battery_percent{serial,product_type}
//	dysonvac_vacuum_state{serial,product_type,state}
//	dysonvac_sessions / dysonvac_sessions_connected
//
// The InfluxDB sink keeps history; this package serves the current values.
package metrics
