// Package api provides the HTTP REST API and WebSocket server for Hearth Core.
//
// It exposes the registered device list, per-device value history, and a
// real-time value stream to user interfaces (dashboards, CLIs).
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/hearth-home/hearth-core/internal/history"
	"github.com/hearth-home/hearth-core/internal/infrastructure/config"
	"github.com/hearth-home/hearth-core/internal/infrastructure/logging"
	"github.com/hearth-home/hearth-core/internal/registry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	History history.Repository // optional; history endpoints 503 without it
	Version string
}

// deviceEntry is the API view of a registered device.
type deviceEntry struct {
	Name         string    `json:"name"`
	Writable     bool      `json:"writable"`
	RegisteredAt time.Time `json:"registered_at"`

	LastReading any        `json:"last_reading,omitempty"`
	LastAt      *time.Time `json:"last_at,omitempty"`
}

// Server is the HTTP API server for Hearth Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub, and
// keeps its own view of the device population fed by registration
// announcements.
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	repo    history.Repository
	version string

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc

	mu      sync.RWMutex
	devices map[string]*deviceEntry
	subs    []*registry.Subscription

	wg sync.WaitGroup
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger; history optional)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		repo:    deps.History,
		version: deps.Version,
		hub:     NewHub(deps.WS, deps.Logger),
		devices: make(map[string]*deviceEntry),
	}, nil
}

// DeviceRegistered records a newly registered device and starts relaying
// its values to WebSocket clients. Intended for use as a registration
// callback; safe to call before Start.
func (s *Server) DeviceRegistered(dev registry.Device) {
	sub := dev.Values.Subscribe()

	s.mu.Lock()
	s.devices[dev.Name] = &deviceEntry{
		Name:         dev.Name,
		Writable:     dev.Writable,
		RegisteredAt: dev.RegisteredAt,
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.relayValues(dev.Name, sub)
}

// relayValues drains one device's subscription into the WebSocket hub and
// the last-reading cache.
func (s *Server) relayValues(device string, sub *registry.Subscription) {
	defer s.wg.Done()

	for v := range sub.Values() {
		s.mu.Lock()
		if entry, ok := s.devices[device]; ok {
			at := v.At
			entry.LastReading = v.Reading
			entry.LastAt = &at
		}
		s.mu.Unlock()

		s.hub.Broadcast(ChannelDeviceValue, v)
	}
}

// deviceList returns a name-sorted snapshot of the known devices.
func (s *Server) deviceList() []deviceEntry {
	s.mu.RLock()
	out := make([]deviceEntry, 0, len(s.devices))
	for _, entry := range s.devices {
		out = append(out, *entry)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// knowsDevice reports whether the device has been registered.
func (s *Server) knowsDevice(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.devices[name]
	return ok
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and launches the HTTP listener in a
// background goroutine. The server is stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It detaches the value relays, waits up to 10 seconds for in-flight
// requests to complete, then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
	s.wg.Wait()

	if s.cancel != nil {
		s.cancel()
	}

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
