// Package mqtt provides MQTT client connectivity to Dyson robot vacuums.
//
// This package manages:
//   - One authenticated connection per robot, with fixed-interval auto-reconnect
//   - Non-blocking publish and subscribe with asynchronous error reporting
//   - Subscription restore after reconnect
//   - Topic builders for the robot's status and command topics
//
// # Architecture
//
// Each robot runs an MQTT broker on its own LAN address. There is no shared
// broker: every device session dials its robot directly, authenticating with
// the serial number as username and the decoded local credential as password.
//
//	dysonvac ↔ robot broker (port 1883)
//
// # Security Considerations
//
//   - The robot broker does not offer TLS; traffic stays on the local network
//   - The password is never logged
//
// # Usage
//
//	client, err := mqtt.Dial(mqtt.Options{
//	    BrokerURL: "mqtt://192.168.1.50:1883",
//	    ClientID:  mqtt.NewClientID("dyson_"),
//	    Username:  serial,
//	    Password:  localCredentials,
//	}, mqtt.Events{
//	    OnConnect: func() { log.Println("connected") },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.DeviceStatus("N223", serial), 0,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt
