package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfig writes a config file into a temp dir and points DYSONVAC_CONFIG at it.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("DYSONVAC_CONFIG", configPath)
}

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("DYSONVAC_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	writeConfig(t, `
database:
  path: ""
logging:
  level: error
  format: text
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestRun_StartupAndShutdown runs with a device that never answers and
// verifies a clean shutdown once the context ends.
func TestRun_StartupAndShutdown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dysonvac.db")
	t.Setenv("DYSONVAC_DATABASE_PATH", dbPath)

	// TEST-NET-1 address, nothing listens there
	writeConfig(t, `
platform:
  name: Dyson
  devices:
    - credentials: eyJTZXJpYWwiOiJTMSIsIlByb2R1Y3RUeXBlIjoiTjIyMyIsIkxvY2FsQ3JlZGVudGlhbHMiOiJwdyJ9
      ipAddress: 192.0.2.1
    - credentials: not-base64!
      serialNumber: BROKEN
      ipAddress: 192.0.2.2
mqtt:
  connect_timeout: 1
logging:
  level: error
  format: text
`)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("accessory cache not created: %v", err)
	}
}

// TestRun_NoPlatformSection verifies the daemon idles without a platform.
func TestRun_NoPlatformSection(t *testing.T) {
	t.Setenv("DYSONVAC_DATABASE_PATH", filepath.Join(t.TempDir(), "dysonvac.db"))
	writeConfig(t, "logging:\n  level: error\n")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// TestRun_WithMetrics verifies the metrics listener starts and stops with run.
func TestRun_WithMetrics(t *testing.T) {
	t.Setenv("DYSONVAC_DATABASE_PATH", filepath.Join(t.TempDir(), "dysonvac.db"))
	writeConfig(t, `
metrics:
  enabled: true
  address: 127.0.0.1:0
logging:
  level: error
`)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("DYSONVAC_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("DYSONVAC_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
