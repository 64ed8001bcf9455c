package mqtt

import "fmt"

// Topic prefixes for the Hearth MQTT namespace.
//
// Device value topics use the flat scheme: hearth/value/{device}
const (
	// TopicPrefix is the base for all Hearth topics.
	TopicPrefix = "hearth"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "hearth/system"
)

// Topics provides builders for Hearth MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	valueTopic := topics.DeviceValue("furnace.temp")
//	// Returns: "hearth/value/furnace.temp"
type Topics struct{}

// DeviceValue returns the topic for value updates from a device.
//
// Example: hearth/value/furnace.temp
func (Topics) DeviceValue(device string) string {
	return fmt.Sprintf("%s/value/%s", TopicPrefix, device)
}

// DeviceRegistered returns the topic for device registration announcements.
//
// Example: hearth/device/furnace.temp/registered
func (Topics) DeviceRegistered(device string) string {
	return fmt.Sprintf("%s/device/%s/registered", TopicPrefix, device)
}

// SystemStatus returns the system status topic.
//
// Example: hearth/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceValues returns a pattern matching every device value topic.
//
// Pattern: hearth/value/+
func (Topics) AllDeviceValues() string {
	return fmt.Sprintf("%s/value/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Hearth topics.
// Use with caution, this receives ALL traffic.
//
// Pattern: hearth/#
func (Topics) AllTopics() string {
	return "hearth/#"
}
