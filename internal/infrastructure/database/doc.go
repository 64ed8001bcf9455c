// Package database provides SQLite database connectivity for Hearth Core.
//
// This package manages:
//   - Database connection with WAL mode for concurrent access
//   - Connection pooling and lifecycle management
//   - Busy-timeout and foreign-key pragmas
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Performance Characteristics:
//   - WAL mode allows concurrent reads during writes
//   - Busy timeout prevents lock contention errors
//   - Single-writer pool matches SQLite's concurrency model
//
// Usage:
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.History.Path,
//	    WALMode:     cfg.History.WALMode,
//	    BusyTimeout: cfg.History.BusyTimeout,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
