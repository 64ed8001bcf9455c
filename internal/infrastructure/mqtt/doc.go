// Package mqtt provides MQTT client connectivity for Hearth Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// The client is publish-only. Hearth Core never consumes broker messages;
// device settings flow through the registry, not MQTT. External consumers
// subscribe with the wildcard patterns in Topics (AllDeviceValues, AllTopics).
//
// # Architecture
//
// Hearth Core publishes device values onto the broker so external
// consumers (dashboards, automations, other daemons) can observe them
// without talking to the daemon directly.
//
//	Hearth Core → MQTT Broker → External consumers
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.DeviceValue("furnace.temp")
//	client.Publish(topic, []byte(`{"device":"furnace.temp","reading":19.25}`), 1, true)
package mqtt
