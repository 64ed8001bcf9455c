package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hearth-home/hearth-core/internal/infrastructure/database"
	"github.com/hearth-home/hearth-core/internal/registry"
)

// openTestRepo creates a temporary SQLite-backed repository.
func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewSQLiteRepository(db.DB)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return repo
}

func TestRecordAndRecent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.Record(ctx, registry.Value{
			Device:  "furnace.temp",
			At:      base.Add(time.Duration(i) * time.Second),
			Reading: 19.0 + float64(i),
		})
		if err != nil {
			t.Fatalf("Record(%d) error = %v", i, err)
		}
	}

	entries, err := repo.Recent(ctx, "furnace.temp", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(entries))
	}

	// Newest first.
	if entries[0].Reading != 21.0 {
		t.Errorf("newest Reading = %v, want 21", entries[0].Reading)
	}
	if !entries[0].At.Equal(base.Add(2 * time.Second)) {
		t.Errorf("newest At = %v, want %v", entries[0].At, base.Add(2*time.Second))
	}
	if entries[0].Device != "furnace.temp" {
		t.Errorf("Device = %q, want furnace.temp", entries[0].Device)
	}
}

func TestRecentFiltersByDevice(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, device := range []string{"a", "b", "a"} {
		if err := repo.Record(ctx, registry.Value{Device: device, At: now, Reading: 1}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := repo.Recent(ctx, "a", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Recent(a) returned %d entries, want 2", len(entries))
	}
}

func TestRecentLimitClamping(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < defaultRecentLimit+10; i++ {
		if err := repo.Record(ctx, registry.Value{
			Device:  "d",
			At:      now.Add(time.Duration(i) * time.Millisecond),
			Reading: i,
		}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	// Zero limit falls back to the default.
	entries, err := repo.Recent(ctx, "d", 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != defaultRecentLimit {
		t.Errorf("Recent(0) returned %d entries, want %d", len(entries), defaultRecentLimit)
	}
}

func TestRecordNonNumericReading(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Record(ctx, registry.Value{
		Device:  "relay.main",
		At:      time.Now().UTC(),
		Reading: true,
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := repo.Recent(ctx, "relay.main", 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if entries[0].Reading != true {
		t.Errorf("Reading = %v (%T), want true", entries[0].Reading, entries[0].Reading)
	}
}

func TestRecordRequiresDevice(t *testing.T) {
	repo := openTestRepo(t)

	if err := repo.Record(context.Background(), registry.Value{Reading: 1}); err == nil {
		t.Error("Record() should reject an empty device name")
	}
	if _, err := repo.Recent(context.Background(), "", 10); err == nil {
		t.Error("Recent() should reject an empty device name")
	}
}

func TestPrune(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	old := registry.Value{Device: "d", At: time.Now().UTC().Add(-48 * time.Hour), Reading: 1}
	fresh := registry.Value{Device: "d", At: time.Now().UTC(), Reading: 2}
	for _, v := range []registry.Value{old, fresh} {
		if err := repo.Record(ctx, v); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	deleted, err := repo.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted = %d, want 1", deleted)
	}

	entries, err := repo.Recent(ctx, "d", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Reading != 2.0 {
		t.Errorf("surviving entries = %+v, want the fresh reading only", entries)
	}

	if _, err := repo.Prune(ctx, 0); err == nil {
		t.Error("Prune() should reject a non-positive retention window")
	}
}
