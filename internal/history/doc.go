// Package history persists device values to SQLite.
//
// The Recorder taps device registrations: for every device it subscribes
// to the value broadcast and writes each reading into the value_history
// table. Queries serve the HTTP API's per-device history endpoint, and
// Prune enforces the configured retention window.
//
// Storage keeps the full reading as JSON so non-numeric device values
// (booleans, strings) survive the round trip unchanged.
//
// Usage:
//
//	repo := history.NewSQLiteRepository(db.DB)
//	if err := repo.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	rec := history.NewRecorder(repo)
//	client.SetOnRegister(rec.DeviceRegistered)
//	defer rec.Stop()
package history
