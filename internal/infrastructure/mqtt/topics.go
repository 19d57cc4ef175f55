package mqtt

import "fmt"

// Topics provides builders for Dyson local MQTT topics.
//
// Each robot runs its own broker and namespaces every topic by product
// type and serial number:
//
//	topics := mqtt.Topics{}
//	statusTopic := topics.DeviceStatus("N223", "JH1-EU-ABC1234A")
//	// Returns: "N223/JH1-EU-ABC1234A/status/current"
type Topics struct{}

// DeviceStatus returns the topic the robot publishes its state on.
//
// Example: 276/JH1-EU-ABC1234A/status/current
func (Topics) DeviceStatus(productType, serial string) string {
	return fmt.Sprintf("%s/%s/status/current", productType, serial)
}

// DeviceCommand returns the topic the robot accepts commands on.
//
// Example: 276/JH1-EU-ABC1234A/command
func (Topics) DeviceCommand(productType, serial string) string {
	return fmt.Sprintf("%s/%s/command", productType, serial)
}
