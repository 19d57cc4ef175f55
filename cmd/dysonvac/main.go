// dysonvac - local MQTT control of Dyson robot vacuums
//
// This is the standalone host for the vacuum platform. It restores the
// accessory cache, starts one session per configured robot, and keeps
// them running until interrupted:
//   - Each robot is reached directly on its own local MQTT broker
//   - No cloud round-trip once credentials have been generated
//   - A broken device entry never stops the others
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lvanness7690/homebridge-dyson-heurist/migrations"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/accessory"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/host"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/config"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/database"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/influxdb"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/logging"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/metrics"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/platform"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/vacuum"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// healthCheckTimeout bounds the startup health check.
const healthCheckTimeout = 5 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting dysonvac",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the accessory cache
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.GetBusyTimeout(),
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	var recorders multiRecorder
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		recorders = append(recorders, newStatusRecorder(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	var vacuumMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		vacuumMetrics = metrics.New()
		recorders = append(recorders, metricsRecorder{observer: vacuumMetrics})
	}

	if healthErr := healthCheck(ctx, db, influxClient); healthErr != nil {
		return fmt.Errorf("health check: %w", healthErr)
	}

	accessoryHost := host.New(accessory.NewSQLiteRepository(db.DB), log.With("component", "host"))

	vacuumPlatform := platform.New(platform.Options{
		Host:   accessoryHost,
		Logger: log.With("component", "platform"),
		SessionLogger: log.With("component", "vacuum"),
		Recorder:      statusRecorderFor(recorders),
		Settings:      platform.SettingsFromConfig(cfg),
	})

	if vacuumMetrics != nil {
		if metricsErr := startMetrics(ctx, vacuumMetrics, vacuumPlatform, cfg.Metrics.Address, log); metricsErr != nil {
			return fmt.Errorf("starting metrics: %w", metricsErr)
		}
	}

	log.Info("dysonvac started successfully")

	// Blocks until a shutdown signal arrives
	if runErr := accessoryHost.Run(ctx, vacuumPlatform, cfg.Platform); runErr != nil {
		return fmt.Errorf("running platform: %w", runErr)
	}

	log.Info("shutdown complete")
	return nil
}

// getConfigPath returns the configuration file path.
// Checks DYSONVAC_CONFIG environment variable first, then uses default.
func getConfigPath() string {
	if path := os.Getenv("DYSONVAC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// statusRecorderFor collapses the configured sinks into one recorder, or
// nil when there are none.
func statusRecorderFor(recorders multiRecorder) vacuum.StatusRecorder {
	switch len(recorders) {
	case 0:
		return nil
	case 1:
		return recorders[0]
	default:
		return recorders
	}
}

// startMetrics serves the Prometheus endpoint until ctx is cancelled.
func startMetrics(ctx context.Context, m *metrics.Metrics, p *platform.Platform, address string, log *logging.Logger) error {
	err := m.RegisterSessionGauges(
		func() float64 { return float64(len(p.Sessions())) },
		func() float64 {
			connected := 0
			for _, s := range p.Sessions() {
				if s.State() == vacuum.StateConnected {
					connected++
				}
			}
			return float64(connected)
		},
	)
	if err != nil {
		return err
	}

	done, err := m.Serve(ctx, address)
	if err != nil {
		return err
	}
	go func() {
		if serveErr := <-done; serveErr != nil {
			log.Error("metrics server stopped", "error", serveErr)
		}
	}()

	log.Info("metrics endpoint listening", "address", address)
	return nil
}

// healthCheck verifies the infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, influxClient *influxdb.Client) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
