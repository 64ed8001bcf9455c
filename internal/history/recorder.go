package history

import (
	"context"
	"sync"

	"github.com/hearth-home/hearth-core/internal/registry"
)

// Logger interface for optional logging support.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder subscribes to device value broadcasts and persists every
// reading through a Repository. It is wired into the registry client's
// registration callback so each new device gets its own pump goroutine.
type Recorder struct {
	repo   Repository
	logger Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs []*registry.Subscription

	wg sync.WaitGroup
}

// NewRecorder creates a Recorder writing to the given repository.
func NewRecorder(repo Repository) *Recorder {
	ctx, cancel := context.WithCancel(context.Background())
	return &Recorder{
		repo:   repo,
		logger: noopLogger{},
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetLogger sets a logger for persistence failures.
func (r *Recorder) SetLogger(logger Logger) {
	r.logger = logger
}

// DeviceRegistered subscribes to the device's value broadcast and starts
// persisting its readings. Intended for use as a registration callback.
func (r *Recorder) DeviceRegistered(dev registry.Device) {
	sub := dev.Values.Subscribe()

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()

	r.wg.Add(1)
	go r.pump(dev.Name, sub)
}

// pump drains one device's subscription into the repository.
func (r *Recorder) pump(device string, sub *registry.Subscription) {
	defer r.wg.Done()

	for v := range sub.Values() {
		if err := r.repo.Record(r.ctx, v); err != nil {
			r.logger.Error("recording device value",
				"device", device,
				"error", err,
			)
		}
	}
}

// Stop cancels all subscriptions and waits for in-flight writes to
// finish. The Recorder cannot be reused afterwards.
func (r *Recorder) Stop() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}

	// Let the pumps drain their buffered values before cutting the
	// write context.
	r.wg.Wait()
	r.cancel()
}
