// Hearth Core - Device Monitoring Daemon
//
// This is the main entry point for the Hearth Core daemon. Hearth is a
// small device-monitoring system built around a single-owner device
// registry:
//   - Drivers register named devices and publish readings
//   - Observers (MQTT, SQLite history, InfluxDB, HTTP/WebSocket API)
//     follow the value streams without ever touching the registry table
//   - The daemon shuts down cleanly when the drivers are done or a
//     signal arrives
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearth-home/hearth-core/internal/api"
	"github.com/hearth-home/hearth-core/internal/bridge"
	"github.com/hearth-home/hearth-core/internal/driver"
	"github.com/hearth-home/hearth-core/internal/history"
	"github.com/hearth-home/hearth-core/internal/infrastructure/config"
	"github.com/hearth-home/hearth-core/internal/infrastructure/database"
	"github.com/hearth-home/hearth-core/internal/infrastructure/influxdb"
	"github.com/hearth-home/hearth-core/internal/infrastructure/logging"
	"github.com/hearth-home/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearth-home/hearth-core/internal/registry"
	"github.com/hearth-home/hearth-core/internal/telemetry"
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
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Hearth Core",
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

	// Start the registrar actor and create the shared client
	handle := registry.Start(log.With("component", "registry"))
	client := registry.NewClient(handle)

	// Open the history store (optional)
	var historyRepo history.Repository
	var recorder *history.Recorder
	if cfg.History.Enabled {
		db, openErr := database.Open(database.Config{
			Path:        cfg.History.Path,
			WALMode:     cfg.History.WALMode,
			BusyTimeout: cfg.History.BusyTimeout,
		})
		if openErr != nil {
			return fmt.Errorf("opening history database: %w", openErr)
		}
		defer func() {
			log.Info("closing history database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing history database", "error", closeErr)
			}
		}()
		log.Info("history database connected", "path", cfg.History.Path)

		repo := history.NewSQLiteRepository(db.DB)
		if initErr := repo.Init(ctx); initErr != nil {
			return fmt.Errorf("initialising history schema: %w", initErr)
		}
		historyRepo = repo

		recorder = history.NewRecorder(repo)
		recorder.SetLogger(log.With("component", "history"))
		defer recorder.Stop()

		if cfg.History.RetentionDays > 0 {
			go pruneLoop(ctx, repo, cfg.History.RetentionDays, log)
		}
	} else {
		log.Info("history disabled")
	}

	// Connect to the MQTT broker (optional)
	var valueBridge *bridge.Bridge
	if cfg.MQTT.Enabled {
		mqttClient, connErr := mqtt.Connect(cfg.MQTT)
		if connErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", connErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port),
			"client_id", cfg.MQTT.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		valueBridge = bridge.New(mqttClient, byte(cfg.MQTT.QoS))
		valueBridge.SetLogger(log.With("component", "bridge"))
		defer valueBridge.Stop()
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var telemetryTap *telemetry.Tap
	if cfg.InfluxDB.Enabled {
		influxClient, connErr := influxdb.Connect(cfg.InfluxDB)
		if connErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connErr)
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

		telemetryTap = telemetry.New(influxClient)
		// Deferred after the client's Close, so the tap drains first.
		defer telemetryTap.Stop()
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the HTTP API server (optional)
	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer, err = api.New(api.Deps{
			Config:  cfg.API,
			WS:      cfg.WebSocket,
			Logger:  log.With("component", "api"),
			History: historyRepo,
			Version: version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if startErr := apiServer.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := apiServer.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
		log.Info("API server started",
			"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		)
	} else {
		log.Info("API disabled")
	}

	// Fan registration announcements out to every observer
	client.SetOnRegister(func(dev registry.Device) {
		log.Info("device registered", "device", dev.Name, "writable", dev.Writable)
		if recorder != nil {
			recorder.DeviceRegistered(dev)
		}
		if valueBridge != nil {
			valueBridge.DeviceRegistered(dev)
		}
		if apiServer != nil {
			apiServer.DeviceRegistered(dev)
		}
		if telemetryTap != nil {
			telemetryTap.DeviceRegistered(dev)
		}
	})

	// Launch the drivers; the supervisor closes the request channel when
	// the last driver exits, letting the registrar drain and terminate.
	supervisor, err := driver.NewSupervisor(cfg.Drivers, client, handle.Close)
	if err != nil {
		return fmt.Errorf("building drivers: %w", err)
	}
	supervisor.SetLogger(log.With("component", "drivers"))
	if err := supervisor.Start(ctx); err != nil {
		return fmt.Errorf("starting drivers: %w", err)
	}
	log.Info("drivers started", "count", len(cfg.Drivers.Specs))

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for a signal, or for the registrar to retire on its own when
	// every driver has exited.
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, cleaning up")
	case <-handle.Done():
		log.Info("all drivers finished, shutting down")
	}

	// The context cancels with the signal; wait for the drivers and the
	// registrar to unwind before the deferred closes run.
	<-supervisor.Done()
	<-handle.Done()

	log.Info("Hearth Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HEARTH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// pruneLoop enforces the history retention window once a day.
func pruneLoop(ctx context.Context, repo history.Repository, retentionDays int, log *logging.Logger) {
	retention := time.Duration(retentionDays) * 24 * time.Hour
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.Prune(ctx, retention)
			if err != nil {
				log.Error("pruning value history", "error", err)
				continue
			}
			if deleted > 0 {
				log.Info("pruned value history", "deleted", deleted)
			}
		}
	}
}
