package history

import (
	"context"
	"time"

	"github.com/hearth-home/hearth-core/internal/registry"
)

// Entry represents one persisted device value.
type Entry struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// Device is the registered device name.
	Device string `json:"device"`

	// Reading is the recorded value, as published by the driver.
	Reading any `json:"reading"`

	// At is the timestamp of the reading (UTC).
	At time.Time `json:"at"`
}

// Repository stores and retrieves device value history.
//
// Implementations must be safe for concurrent use and use UTC timestamps.
type Repository interface {
	// Record persists one device value.
	Record(ctx context.Context, v registry.Value) error

	// Recent returns recent values for the device, newest first.
	// Implementations may clamp the limit.
	Recent(ctx context.Context, device string, limit int) ([]Entry, error)

	// Prune deletes values older than the given duration and reports how
	// many rows were removed.
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}
