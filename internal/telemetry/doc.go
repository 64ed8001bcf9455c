// Package telemetry forwards device readings to InfluxDB.
//
// Tap is an egress observer in the same shape as bridge.Bridge and
// history.Recorder: it subscribes to each registered device's value
// stream via the registration callback and pumps numeric readings into a
// point writer. Non-numeric readings are skipped; booleans are mapped to
// 0/1 so switch-like devices still chart.
//
// Usage:
//
//	tap := telemetry.New(influxClient)
//	client.SetOnRegister(tap.DeviceRegistered)
//	defer tap.Stop()
//
// Stop detaches every subscription and waits for the pumps to drain, so
// buffered values reach the writer before its own Close runs.
package telemetry
