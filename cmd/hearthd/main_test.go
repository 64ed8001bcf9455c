package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)

	os.Setenv("HEARTH_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_InvalidDriverKind verifies run fails when a driver spec names an
// unknown implementation.
func TestRun_InvalidDriverKind(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
daemon:
  name: test-hearth

logging:
  level: info
  format: text
  output: stdout

history:
  enabled: false

mqtt:
  enabled: false

influxdb:
  enabled: false

api:
  enabled: false

drivers:
  specs:
    - name: bogus
      kind: teleport
      device: sensor.bogus
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)
	os.Setenv("HEARTH_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with an unknown driver kind")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)

	os.Unsetenv("HEARTH_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("HEARTH_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_CompletesWhenDriversFinish verifies the daemon shuts down on its
// own once every driver has exited, without needing a signal.
func TestRun_CompletesWhenDriversFinish(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	configContent := `
daemon:
  name: test-hearth

logging:
  level: warn
  format: text
  output: stdout

history:
  enabled: true
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5
  retention_days: 0

mqtt:
  enabled: false

influxdb:
  enabled: false

api:
  enabled: false

drivers:
  restart_on_failure: false
  specs:
    - name: relay
      kind: latch
      device: relay.test
      initial: false
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)
	os.Setenv("HEARTH_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// The latch driver runs until the context ends, then run unwinds the
	// supervisor and the registrar before returning.
	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// TestRun_ContextCancelledDuringStartup verifies cancellation during startup.
func TestRun_ContextCancelledDuringStartup(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	configContent := `
daemon:
  name: test-hearth

logging:
  level: warn
  format: text
  output: stdout

history:
  enabled: true
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

api:
  enabled: false

drivers:
  specs: []
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)
	os.Setenv("HEARTH_CONFIG", configPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With no drivers the supervisor retires the registrar immediately;
	// run returns cleanly either way.
	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}
