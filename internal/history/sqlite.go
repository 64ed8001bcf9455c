package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearth-home/hearth-core/internal/registry"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// SQLiteRepository implements Repository using SQLite.
//
// It stores readings as JSON in the value_history table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite value history repository.
//
// Parameters:
//   - db: Open SQLite connection used for queries
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Init creates the value_history table and its device index if they do
// not exist yet.
func (r *SQLiteRepository) Init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS value_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			device      TEXT NOT NULL,
			reading     TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating value_history table: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_value_history_device
		ON value_history (device, recorded_at)`)
	if err != nil {
		return fmt.Errorf("creating value_history index: %w", err)
	}

	return nil
}

// Record inserts a new history row for a device value.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - v: The value to persist
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) Record(ctx context.Context, v registry.Value) error {
	if v.Device == "" {
		return fmt.Errorf("device name is required")
	}

	at := v.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	readingJSON, err := json.Marshal(v.Reading)
	if err != nil {
		return fmt.Errorf("marshalling reading: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO value_history (device, reading, recorded_at) VALUES (?, ?, ?)",
		v.Device,
		string(readingJSON),
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting value history: %w", err)
	}

	return nil
}

// Recent returns recent values for a device, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - device: Registered device name
//   - limit: Maximum entries to return (default 50, max 200)
//
// Returns:
//   - []Entry: History entries ordered by recorded_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteRepository) Recent(ctx context.Context, device string, limit int) ([]Entry, error) {
	if device == "" {
		return nil, fmt.Errorf("device name is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device, reading, recorded_at
		 FROM value_history
		 WHERE device = ?
		 ORDER BY recorded_at DESC
		 LIMIT ?`,
		device,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying value history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var readingJSON string
		var recordedAt string

		if err := rows.Scan(&entry.ID, &entry.Device, &readingJSON, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning value history: %w", err)
		}

		if err := json.Unmarshal([]byte(readingJSON), &entry.Reading); err != nil {
			return nil, fmt.Errorf("unmarshalling reading: %w", err)
		}

		at, err := parseTimestamp(recordedAt)
		if err != nil {
			return nil, err
		}
		entry.At = at

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating value history: %w", err)
	}

	return entries, nil
}

// Prune deletes history rows older than the given duration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Duration to retain (rows older than now-olderThan are deleted)
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM value_history WHERE recorded_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting value history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseTimestamp parses a timestamp stored in SQLite.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("recorded_at is empty")
	}

	at, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return at, nil
	}

	fallback, fallbackErr := time.Parse(time.RFC3339, value)
	if fallbackErr == nil {
		return fallback, nil
	}

	return time.Time{}, fmt.Errorf("parsing recorded_at: %w", err)
}
