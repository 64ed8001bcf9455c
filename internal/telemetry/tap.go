package telemetry

import (
	"sync"
	"time"

	"github.com/hearth-home/hearth-core/internal/registry"
)

// Writer receives one numeric reading per device value. Satisfied by
// *influxdb.Client.
type Writer interface {
	WriteDeviceValue(device string, reading float64, at time.Time)
}

// Tap subscribes to registered devices and forwards their numeric
// readings to a Writer.
type Tap struct {
	writer Writer

	mu   sync.Mutex
	subs []*registry.Subscription
	wg   sync.WaitGroup
}

// New creates a Tap around the given writer.
func New(w Writer) *Tap {
	return &Tap{writer: w}
}

// DeviceRegistered subscribes to a newly registered device and starts
// forwarding its values. Intended for use as a registration callback.
func (t *Tap) DeviceRegistered(dev registry.Device) {
	sub := dev.Values.Subscribe()

	t.mu.Lock()
	t.subs = append(t.subs, sub)
	t.mu.Unlock()

	t.wg.Add(1)
	go t.pump(sub)
}

// pump drains one device's subscription into the writer.
func (t *Tap) pump(sub *registry.Subscription) {
	defer t.wg.Done()

	for v := range sub.Values() {
		reading, ok := numericReading(v.Reading)
		if !ok {
			continue
		}
		t.writer.WriteDeviceValue(v.Device, reading, v.At)
	}
}

// Stop detaches every subscription and waits for the pumps to finish, so
// buffered values are written before the caller closes the writer.
func (t *Tap) Stop() {
	t.mu.Lock()
	subs := t.subs
	t.subs = nil
	t.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
	t.wg.Wait()
}

// numericReading converts a device reading to a float64 sample. Booleans
// map to 0/1; anything non-numeric is not chartable and is skipped.
func numericReading(reading any) (float64, bool) {
	switch r := reading.(type) {
	case float64:
		return r, true
	case float32:
		return float64(r), true
	case int:
		return float64(r), true
	case int64:
		return float64(r), true
	case bool:
		if r {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
