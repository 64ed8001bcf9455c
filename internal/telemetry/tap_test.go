package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/hearth-home/hearth-core/internal/registry"
)

// fakeWriter records every point it receives.
type fakeWriter struct {
	mu     sync.Mutex
	points []point
}

type point struct {
	device  string
	reading float64
	at      time.Time
}

func (w *fakeWriter) WriteDeviceValue(device string, reading float64, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, point{device: device, reading: reading, at: at})
}

func (w *fakeWriter) snapshot() []point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]point(nil), w.points...)
}

func TestTapForwardsReadings(t *testing.T) {
	writer := &fakeWriter{}
	tap := New(writer)

	values := registry.NewBroadcaster(20)
	tap.DeviceRegistered(registry.Device{Name: "furnace.temp", Values: values})

	at := time.Now().UTC()
	values.Send(registry.Value{Device: "furnace.temp", At: at, Reading: 19.25})
	values.Send(registry.Value{Device: "furnace.temp", At: at.Add(time.Second), Reading: 19.5})

	tap.Stop()

	points := writer.snapshot()
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].device != "furnace.temp" || points[0].reading != 19.25 {
		t.Errorf("first point = %+v", points[0])
	}
	if !points[0].at.Equal(at) {
		t.Errorf("first point at = %v, want %v", points[0].at, at)
	}
}

func TestTapSkipsNonNumericReadings(t *testing.T) {
	writer := &fakeWriter{}
	tap := New(writer)

	values := registry.NewBroadcaster(20)
	tap.DeviceRegistered(registry.Device{Name: "relay.main", Values: values})

	now := time.Now().UTC()
	values.Send(registry.Value{Device: "relay.main", At: now, Reading: "open"})
	values.Send(registry.Value{Device: "relay.main", At: now, Reading: nil})
	values.Send(registry.Value{Device: "relay.main", At: now, Reading: true})

	tap.Stop()

	points := writer.snapshot()
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].reading != 1 {
		t.Errorf("reading = %v, want 1 (true maps to 1)", points[0].reading)
	}
}

func TestTapStopDrainsBufferedValues(t *testing.T) {
	writer := &fakeWriter{}
	tap := New(writer)

	values := registry.NewBroadcaster(20)
	tap.DeviceRegistered(registry.Device{Name: "sensor.a", Values: values})

	// Queue a burst and stop immediately. Stop must wait for the pump to
	// drain what was buffered before the writer is considered done.
	for i := 0; i < 10; i++ {
		values.Send(registry.Value{Device: "sensor.a", At: time.Now().UTC(), Reading: float64(i)})
	}
	tap.Stop()

	if got := len(writer.snapshot()); got != 10 {
		t.Errorf("points after Stop = %d, want 10", got)
	}
}

func TestTapStopDetachesSubscribers(t *testing.T) {
	writer := &fakeWriter{}
	tap := New(writer)

	values := registry.NewBroadcaster(20)
	tap.DeviceRegistered(registry.Device{Name: "sensor.a", Values: values})

	tap.Stop()
	if n := values.SubscriberCount(); n != 0 {
		t.Errorf("SubscriberCount() = %d after Stop, want 0", n)
	}

	// Values sent after Stop go nowhere.
	values.Send(registry.Value{Device: "sensor.a", At: time.Now().UTC(), Reading: 1.0})
	if got := len(writer.snapshot()); got != 0 {
		t.Errorf("points after Stop = %d, want 0", got)
	}
}

func TestNumericReading(t *testing.T) {
	tests := []struct {
		name    string
		reading any
		want    float64
		ok      bool
	}{
		{"float64", 19.25, 19.25, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 7, 7, true},
		{"int64", int64(-3), -3, true},
		{"bool true", true, 1, true},
		{"bool false", false, 0, true},
		{"string", "open", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numericReading(tt.reading)
			if got != tt.want || ok != tt.ok {
				t.Errorf("numericReading(%v) = (%v, %v), want (%v, %v)",
					tt.reading, got, ok, tt.want, tt.ok)
			}
		})
	}
}
