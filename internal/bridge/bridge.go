package bridge

import (
	"encoding/json"
	"sync"

	"github.com/hearth-home/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearth-home/hearth-core/internal/registry"
)

// Publisher is the broker-facing surface the bridge needs. Satisfied by
// *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Logger interface for optional logging support.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Bridge relays device values from the registry onto the MQTT broker.
type Bridge struct {
	pub    Publisher
	qos    byte
	logger Logger
	topics mqtt.Topics

	mu   sync.Mutex
	subs []*registry.Subscription

	wg sync.WaitGroup
}

// New creates a Bridge publishing through the given client at the given
// QoS level.
func New(pub Publisher, qos byte) *Bridge {
	return &Bridge{
		pub:    pub,
		qos:    qos,
		logger: noopLogger{},
	}
}

// SetLogger sets a logger for publish failures.
func (b *Bridge) SetLogger(logger Logger) {
	b.logger = logger
}

// DeviceRegistered subscribes to the device's value broadcast and starts
// relaying its readings to the broker. Intended for use as a registration
// callback.
func (b *Bridge) DeviceRegistered(dev registry.Device) {
	sub := dev.Values.Subscribe()

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go b.relay(dev.Name, sub)
}

// relay drains one device's subscription onto its value topic.
func (b *Bridge) relay(device string, sub *registry.Subscription) {
	defer b.wg.Done()

	topic := b.topics.DeviceValue(device)
	for v := range sub.Values() {
		if !b.pub.IsConnected() {
			b.logger.Debug("broker offline, dropping value", "device", device)
			continue
		}

		payload, err := json.Marshal(v)
		if err != nil {
			b.logger.Warn("encoding device value",
				"device", device,
				"error", err,
			)
			continue
		}

		// Retained so new broker subscribers see the latest reading.
		if err := b.pub.Publish(topic, payload, b.qos, true); err != nil {
			b.logger.Warn("publishing device value",
				"device", device,
				"topic", topic,
				"error", err,
			)
		}
	}
}

// Stop cancels all subscriptions and waits for in-flight publishes to
// finish. The Bridge cannot be reused afterwards.
func (b *Bridge) Stop() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
	b.wg.Wait()
}
