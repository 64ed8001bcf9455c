// Package bridge publishes device values onto the MQTT broker.
//
// The Bridge taps device registrations: for every device it subscribes to
// the value broadcast and republishes each reading as retained JSON on
// hearth/value/<device>. External consumers (dashboards, automations,
// other daemons) observe device state through the broker without talking
// to the daemon directly.
//
// Publishing is best effort. A disconnected broker drops values; the
// local history recorder remains the durable record.
//
// Usage:
//
//	b := bridge.New(mqttClient, byte(cfg.MQTT.QoS))
//	client.SetOnRegister(b.DeviceRegistered)
//	defer b.Stop()
package bridge
