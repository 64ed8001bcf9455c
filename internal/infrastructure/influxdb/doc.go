// Package influxdb provides InfluxDB connectivity for Hearth Core.
//
// It wraps the official influxdb-client-go v2 library with Hearth-specific
// patterns for connection management, value export, and health monitoring.
//
// # Purpose
//
// This package handles long-term time-series storage of numeric device
// readings, complementing the local SQLite history with a store suited
// to dashboards and retention policies.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteDeviceValue("furnace.temp", 19.25, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are delivered via
// the SetOnError callback. Connection and health check errors are
// returned directly.
package influxdb
