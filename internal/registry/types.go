package registry

import "time"

// Channel capacities. A driver blocks on registration when ten requests
// are already queued; a subscriber that falls 20 values behind loses its
// oldest buffered values; a read-write device can have at most 20 pending
// settings before setting producers block.
const (
	requestBacklog = 10
	valueBacklog   = 20
	settingBacklog = 20
)

// Value is a single reading produced by a device driver.
type Value struct {
	Device  string    `json:"device"`
	At      time.Time `json:"at"`
	Reading any       `json:"reading"`
}

// Setting is a pending setting request for a read-write device. The
// driver that owns the device consumes settings from the receive endpoint
// returned at registration.
type Setting struct {
	At    time.Time `json:"at"`
	Value any       `json:"value"`
}

// Device describes a successfully registered device, as announced to
// observers installed with Client.SetOnRegister.
type Device struct {
	// Name is the globally unique device name.
	Name string

	// Writable is true for read-write devices.
	Writable bool

	// Values is the device's broadcast handle. Observers call Subscribe
	// to receive future readings.
	Values *Broadcaster

	// RegisteredAt is when the registration was acknowledged.
	RegisteredAt time.Time
}
