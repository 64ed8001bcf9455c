package driver

import (
	"context"
	"sync"
	"time"

	"github.com/hearth-home/hearth-core/internal/infrastructure/config"
	"github.com/hearth-home/hearth-core/internal/registry"
)

// Status represents the current state of a supervised driver.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusFailed   Status = "failed"
)

// Supervisor runs a set of drivers, restarting failed ones according to
// policy. It owns the send side of the registry request channel in the
// sense that it signals end-of-registrations: when the last driver has
// exited for good, the supervisor invokes its shutdown callback (normally
// the registrar handle's Close), letting the registrar drain and
// terminate.
type Supervisor struct {
	cfg    config.DriversConfig
	client *registry.Client
	logger Logger

	// onAllExited is called exactly once, after every driver goroutine
	// has returned and will not be restarted.
	onAllExited func()

	mu      sync.RWMutex
	states  map[string]*driverState
	started bool

	wg   sync.WaitGroup
	done chan struct{}
}

// driverState tracks one driver's runtime status under the supervisor.
type driverState struct {
	driver       Driver
	status       Status
	restartCount int
	lastError    error
	startTime    time.Time
}

// NewSupervisor builds the configured drivers and prepares them for
// launch. Returns an error if any spec names an unknown driver kind.
func NewSupervisor(cfg config.DriversConfig, client *registry.Client, onAllExited func()) (*Supervisor, error) {
	states := make(map[string]*driverState, len(cfg.Specs))
	for _, spec := range cfg.Specs {
		d, err := New(spec)
		if err != nil {
			return nil, err
		}
		states[d.Name()] = &driverState{driver: d, status: StatusStopped}
	}

	return &Supervisor{
		cfg:         cfg,
		client:      client,
		logger:      noopLogger{},
		onAllExited: onAllExited,
		states:      states,
		done:        make(chan struct{}),
	}, nil
}

// SetLogger sets the logger for the supervisor.
func (s *Supervisor) SetLogger(logger Logger) {
	s.logger = logger
}

// Start launches every configured driver in its own goroutine. It may be
// called once; it returns immediately.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true

	for _, st := range s.states {
		st.status = StatusStarting
		s.wg.Add(1)
		go s.monitor(ctx, st)
	}
	s.mu.Unlock()

	go func() {
		s.wg.Wait()
		if s.onAllExited != nil {
			s.onAllExited()
		}
		close(s.done)
	}()

	return nil
}

// monitor runs one driver and handles restarts.
func (s *Supervisor) monitor(ctx context.Context, st *driverState) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		st.status = StatusRunning
		st.startTime = time.Now()
		name := st.driver.Name()
		s.mu.Unlock()

		s.logger.Info("driver started", "driver", name)
		err := st.driver.Run(ctx, s.client)

		if ctx.Err() != nil || err == nil {
			s.logger.Info("driver stopped", "driver", name)
			s.mu.Lock()
			st.status = StatusStopped
			s.mu.Unlock()
			return
		}

		s.logger.Warn("driver exited unexpectedly", "driver", name, "error", err)

		s.mu.Lock()
		st.status = StatusFailed
		st.lastError = err
		s.mu.Unlock()

		if !s.cfg.RestartOnFailure {
			s.logger.Info("restart disabled, not restarting", "driver", name)
			return
		}

		s.mu.Lock()
		st.restartCount++
		attempt := st.restartCount
		s.mu.Unlock()

		if s.cfg.MaxRestartAttempts > 0 && attempt > s.cfg.MaxRestartAttempts {
			s.logger.Error("max restart attempts reached",
				"driver", name,
				"attempts", attempt,
			)
			return
		}

		s.logger.Info("restarting driver",
			"driver", name,
			"attempt", attempt,
			"delay", s.cfg.GetRestartDelay(),
		)

		select {
		case <-ctx.Done():
			s.logger.Info("context cancelled, not restarting", "driver", name)
			s.mu.Lock()
			st.status = StatusStopped
			s.mu.Unlock()
			return
		case <-time.After(s.cfg.GetRestartDelay()):
		}
	}
}

// Done returns a channel closed after every driver has exited and the
// end-of-registrations callback has run.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Status returns the current status of the named driver, or StatusStopped
// for an unknown name.
func (s *Supervisor) Status(name string) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[name]; ok {
		return st.status
	}
	return StatusStopped
}

// Stats describes one supervised driver.
type Stats struct {
	Name         string        `json:"name"`
	Status       Status        `json:"status"`
	Uptime       time.Duration `json:"uptime,omitempty"`
	RestartCount int           `json:"restart_count"`
	LastError    string        `json:"last_error,omitempty"`
}

// Stats returns current statistics for every supervised driver.
func (s *Supervisor) Stats() []Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Stats, 0, len(s.states))
	for name, st := range s.states {
		stats := Stats{
			Name:         name,
			Status:       st.status,
			RestartCount: st.restartCount,
		}
		if st.status == StatusRunning {
			stats.Uptime = time.Since(st.startTime)
		}
		if st.lastError != nil {
			stats.LastError = st.lastError.Error()
		}
		out = append(out, stats)
	}
	return out
}
