package driver

import (
	"context"
	"fmt"

	"github.com/hearth-home/hearth-core/internal/infrastructure/config"
	"github.com/hearth-home/hearth-core/internal/registry"
)

// Driver is a device driver run under the Supervisor.
//
// Run owns the driver's entire lifecycle: it registers the driver's
// devices through the client, publishes values, consumes settings, and
// returns when ctx is cancelled or the driver hits an unrecoverable
// error. A nil return means the driver completed on its own terms and
// must not be restarted.
type Driver interface {
	Name() string
	Run(ctx context.Context, client *registry.Client) error
}

// Logger defines the logging interface for drivers and the supervisor.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// New builds a driver from its configuration spec.
//
// Returns ErrUnknownKind when the spec's kind has no implementation.
func New(spec config.DriverConfig) (Driver, error) {
	switch spec.Kind {
	case "sim":
		return newSim(spec), nil
	case "latch":
		return newLatch(spec), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
}
