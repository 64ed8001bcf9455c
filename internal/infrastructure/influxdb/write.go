package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDeviceValue writes a single device reading to InfluxDB.
//
// This is the primary method for recording device telemetry. The write is
// non-blocking; data is batched and sent asynchronously. Only numeric
// readings are exported; callers filter out non-numeric device values.
//
// Parameters:
//   - device: Registered device name (e.g., "furnace.temp")
//   - reading: The numeric value to record
//   - at: The timestamp of the reading
//
// Example:
//
//	client.WriteDeviceValue("furnace.temp", 19.25, time.Now())
func (c *Client) WriteDeviceValue(device string, reading float64, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_value",
		map[string]string{
			"device": device,
		},
		map[string]interface{}{
			"reading": reading,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("daemon_stats",
//	    map[string]string{"instance": "hearthd-01"},
//	    map[string]interface{}{"devices": 12, "drivers": 4})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
