package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for dysonvac.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	// Platform is nil when the file has no platform section. The platform
	// stays inert in that case rather than failing the whole load.
	Platform *PlatformConfig `yaml:"platform"`
	MQTT     MQTTConfig      `yaml:"mqtt"`
	Database DatabaseConfig  `yaml:"database"`
	InfluxDB InfluxDBConfig  `yaml:"influxdb"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// PlatformConfig contains the vacuum platform settings and its configured devices.
type PlatformConfig struct {
	Name    string     `yaml:"name"`
	Devices DeviceList `yaml:"devices"`
}

// DeviceConfig is one configured vacuum.
type DeviceConfig struct {
	// Credentials is the base64-encoded JSON blob produced by the
	// credentials generator ({Name, Serial, ProductType, Version, LocalCredentials}).
	Credentials string `yaml:"credentials"`

	// IPAddress is the vacuum's address on the local network, optionally with a port.
	IPAddress string `yaml:"ipAddress"`

	// Name overrides the name carried in the credentials blob.
	Name string `yaml:"name,omitempty"`

	// SerialNumber is only used to label diagnostics when the credentials
	// cannot be decoded.
	SerialNumber string `yaml:"serialNumber,omitempty"`
}

// MQTTConfig contains the settings shared by every device connection.
type MQTTConfig struct {
	Port            int `yaml:"port"`
	KeepAlive       int `yaml:"keepalive"`        // seconds
	ReconnectPeriod int `yaml:"reconnect_period"` // milliseconds
	ConnectTimeout  int `yaml:"connect_timeout"`  // seconds
	ProtocolVersion int `yaml:"protocol_version"`
	QoS             int `yaml:"qos"`
}

// DatabaseConfig contains the SQLite settings for the accessory cache.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings for vacuum telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// MetricsConfig contains the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DYSONVAC_SECTION_KEY
// For example: DYSONVAC_DATABASE_PATH, DYSONVAC_LOG_LEVEL
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// The MQTT values match what the Dyson app uses against the vacuum's local broker.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Port:            1883,
			KeepAlive:       10,
			ReconnectPeriod: 1000,
			ConnectTimeout:  30,
			ProtocolVersion: 4,
			QoS:             0,
		},
		Database: DatabaseConfig{
			Path:        "./data/dysonvac.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Metrics: MetricsConfig{
			Address: "127.0.0.1:9108",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DYSONVAC_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("DYSONVAC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Keep the InfluxDB token out of the config file where possible
	if v := os.Getenv("DYSONVAC_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// The device list is deliberately not validated here: a malformed device
// entry must only disable that device, which the platform handles when it
// processes the list.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
		errs = append(errs, "mqtt.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.ProtocolVersion != 3 && c.MQTT.ProtocolVersion != 4 {
		errs = append(errs, "mqtt.protocol_version must be 3 or 4")
	}
	if c.MQTT.KeepAlive <= 0 {
		errs = append(errs, "mqtt.keepalive must be positive")
	}
	if c.MQTT.ReconnectPeriod <= 0 {
		errs = append(errs, "mqtt.reconnect_period must be positive")
	}
	if c.MQTT.ConnectTimeout <= 0 {
		errs = append(errs, "mqtt.connect_timeout must be positive")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		errs = append(errs, "metrics.address is required when metrics is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetKeepAlive returns the MQTT keepalive as a Duration.
func (c *Config) GetKeepAlive() time.Duration {
	return time.Duration(c.MQTT.KeepAlive) * time.Second
}

// GetReconnectPeriod returns the fixed MQTT reconnect interval as a Duration.
func (c *Config) GetReconnectPeriod() time.Duration {
	return time.Duration(c.MQTT.ReconnectPeriod) * time.Millisecond
}

// GetConnectTimeout returns the MQTT connect timeout as a Duration.
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.MQTT.ConnectTimeout) * time.Second
}

// GetBusyTimeout returns the SQLite busy timeout as a Duration.
func (c *Config) GetBusyTimeout() time.Duration {
	return time.Duration(c.Database.BusyTimeout) * time.Second
}
