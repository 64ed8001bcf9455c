package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Hearth Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Daemon    DaemonConfig    `yaml:"daemon"`
	Logging   LoggingConfig   `yaml:"logging"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	History   HistoryConfig   `yaml:"history"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Drivers   DriversConfig   `yaml:"drivers"`
}

// DaemonConfig contains instance-level identification.
type DaemonConfig struct {
	Name string `yaml:"name"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MQTTConfig contains MQTT broker connection settings for the value egress bridge.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Host      string              `yaml:"host"`
	Port      int                 `yaml:"port"`
	TLS       bool                `yaml:"tls"`
	ClientID  string              `yaml:"client_id"`
	Username  string              `yaml:"username"`
	Password  string              `yaml:"password"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// HistoryConfig contains settings for the SQLite value history recorder.
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	WALMode       bool   `yaml:"wal_mode"`
	BusyTimeout   int    `yaml:"busy_timeout"`
	RetentionDays int    `yaml:"retention_days"`
}

// InfluxDBConfig contains InfluxDB telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket value-stream settings.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// DriversConfig contains the driver supervisor policy and the set of
// drivers to launch at startup.
type DriversConfig struct {
	// RestartOnFailure enables automatic restart when a driver returns an error.
	RestartOnFailure bool `yaml:"restart_on_failure"`

	// RestartDelaySeconds is the time to wait before restarting a failed driver.
	RestartDelaySeconds int `yaml:"restart_delay_seconds"`

	// MaxRestartAttempts limits restart attempts per driver. 0 means unlimited.
	MaxRestartAttempts int `yaml:"max_restart_attempts"`

	// Specs lists the drivers to run.
	Specs []DriverConfig `yaml:"specs"`
}

// DriverConfig describes one driver instance.
type DriverConfig struct {
	// Name is a unique identifier for the driver instance (used in logs).
	Name string `yaml:"name"`

	// Kind selects the driver implementation ("sim" or "latch").
	Kind string `yaml:"kind"`

	// Device is the device name the driver registers.
	Device string `yaml:"device"`

	// Interval is the publish interval in seconds (sim driver).
	Interval int `yaml:"interval"`

	// Waveform selects the simulated signal shape: "sine" or "ramp" (sim driver).
	Waveform string `yaml:"waveform"`

	// Amplitude scales the simulated signal (sim driver).
	Amplitude float64 `yaml:"amplitude"`

	// Initial is the value a latch driver publishes at startup (latch driver).
	Initial any `yaml:"initial"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HEARTH_SECTION_KEY
// For example: HEARTH_HISTORY_PATH, HEARTH_MQTT_HOST
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
func defaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			Name: "hearthd",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		MQTT: MQTTConfig{
			Host:     "localhost",
			Port:     1883,
			ClientID: "hearth-core",
			QoS:      1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          "./data/hearth.db",
			WALMode:       true,
			BusyTimeout:   5,
			RetentionDays: 30,
		},
		API: APIConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Drivers: DriversConfig{
			RestartOnFailure:    true,
			RestartDelaySeconds: 5,
			MaxRestartAttempts:  10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HEARTH_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEARTH_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}

	if v := os.Getenv("HEARTH_MQTT_HOST"); v != "" {
		cfg.MQTT.Host = v
	}
	if v := os.Getenv("HEARTH_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Username = v
	}
	if v := os.Getenv("HEARTH_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Password = v
	}

	if v := os.Getenv("HEARTH_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	if v := os.Getenv("HEARTH_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Daemon.Name == "" {
		errs = append(errs, "daemon.name is required")
	}

	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Host == "" {
			errs = append(errs, "mqtt.host is required when mqtt is enabled")
		}
	}

	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path is required when history is enabled")
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	seen := make(map[string]bool, len(c.Drivers.Specs))
	devices := make(map[string]bool, len(c.Drivers.Specs))
	for i, spec := range c.Drivers.Specs {
		switch {
		case spec.Name == "":
			errs = append(errs, fmt.Sprintf("drivers.specs[%d].name is required", i))
		case seen[spec.Name]:
			errs = append(errs, fmt.Sprintf("drivers.specs[%d].name %q is duplicated", i, spec.Name))
		default:
			seen[spec.Name] = true
		}

		if spec.Device == "" {
			errs = append(errs, fmt.Sprintf("drivers.specs[%d].device is required", i))
		} else if devices[spec.Device] {
			errs = append(errs, fmt.Sprintf("drivers.specs[%d].device %q is claimed by another driver", i, spec.Device))
		} else {
			devices[spec.Device] = true
		}

		if spec.Kind != "sim" && spec.Kind != "latch" {
			errs = append(errs, fmt.Sprintf("drivers.specs[%d].kind must be \"sim\" or \"latch\"", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetRestartDelay returns the driver restart delay as a Duration.
func (c *DriversConfig) GetRestartDelay() time.Duration {
	return time.Duration(c.RestartDelaySeconds) * time.Second
}

// GetInterval returns the driver publish interval as a Duration.
// Defaults to one second when unset.
func (d *DriverConfig) GetInterval() time.Duration {
	if d.Interval <= 0 {
		return time.Second
	}
	return time.Duration(d.Interval) * time.Second
}
