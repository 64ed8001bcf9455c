package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "daemon:\n  name: hearthd\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.MQTT.Port != 1883 {
		t.Errorf("MQTT.Port = %d, want 1883", cfg.MQTT.Port)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true by default")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if !cfg.Drivers.RestartOnFailure {
		t.Error("Drivers.RestartOnFailure = false, want true by default")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
daemon:
  name: test-daemon

logging:
  level: debug
  format: text

history:
  enabled: true
  path: /tmp/test.db

drivers:
  specs:
    - name: furnace
      kind: sim
      device: furnace.temp
      interval: 2
      waveform: sine
      amplitude: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Daemon.Name != "test-daemon" {
		t.Errorf("Daemon.Name = %q, want %q", cfg.Daemon.Name, "test-daemon")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if len(cfg.Drivers.Specs) != 1 {
		t.Fatalf("len(Drivers.Specs) = %d, want 1", len(cfg.Drivers.Specs))
	}
	if cfg.Drivers.Specs[0].Device != "furnace.temp" {
		t.Errorf("Specs[0].Device = %q, want %q", cfg.Drivers.Specs[0].Device, "furnace.temp")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HEARTH_HISTORY_PATH", "/env/hearth.db")
	t.Setenv("HEARTH_MQTT_HOST", "broker.example")

	path := writeConfig(t, `
daemon:
  name: hearthd

history:
  path: /file/hearth.db

mqtt:
  enabled: true
  host: file-host
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.History.Path != "/env/hearth.db" {
		t.Errorf("History.Path = %q, want env override", cfg.History.Path)
	}
	if cfg.MQTT.Host != "broker.example" {
		t.Errorf("MQTT.Host = %q, want env override", cfg.MQTT.Host)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() should fail for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing daemon name",
			mutate:  func(c *Config) { c.Daemon.Name = "" },
			wantErr: "daemon.name",
		},
		{
			name: "invalid qos",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 3
			},
			wantErr: "mqtt.qos",
		},
		{
			name: "history without path",
			mutate: func(c *Config) {
				c.History.Path = ""
			},
			wantErr: "history.path",
		},
		{
			name: "invalid api port",
			mutate: func(c *Config) {
				c.API.Port = 0
			},
			wantErr: "api.port",
		},
		{
			name: "influxdb without url",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
			},
			wantErr: "influxdb.url",
		},
		{
			name: "driver without device",
			mutate: func(c *Config) {
				c.Drivers.Specs = []DriverConfig{{Name: "a", Kind: "sim"}}
			},
			wantErr: "device is required",
		},
		{
			name: "duplicate driver names",
			mutate: func(c *Config) {
				c.Drivers.Specs = []DriverConfig{
					{Name: "a", Kind: "sim", Device: "d1"},
					{Name: "a", Kind: "sim", Device: "d2"},
				}
			},
			wantErr: "duplicated",
		},
		{
			name: "two drivers claiming one device",
			mutate: func(c *Config) {
				c.Drivers.Specs = []DriverConfig{
					{Name: "a", Kind: "sim", Device: "d1"},
					{Name: "b", Kind: "latch", Device: "d1"},
				}
			},
			wantErr: "claimed by another driver",
		},
		{
			name: "unknown driver kind",
			mutate: func(c *Config) {
				c.Drivers.Specs = []DriverConfig{{Name: "a", Kind: "bogus", Device: "d1"}}
			},
			wantErr: "kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetInterval(t *testing.T) {
	d := DriverConfig{}
	if got := d.GetInterval(); got.Seconds() != 1 {
		t.Errorf("GetInterval() = %v, want 1s default", got)
	}

	d.Interval = 5
	if got := d.GetInterval(); got.Seconds() != 5 {
		t.Errorf("GetInterval() = %v, want 5s", got)
	}
}
