package vacuum

import (
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/mqtt"
)

// Conn is the transport a session drives. *mqtt.Client satisfies it.
type Conn interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Close() error
}

// Dialer opens a transport without waiting for the broker. Connection
// progress is reported through events.
type Dialer func(opts mqtt.Options, events mqtt.Events) (Conn, error)

// DialMQTT is the production Dialer.
func DialMQTT(opts mqtt.Options, events mqtt.Events) (Conn, error) {
	client, err := mqtt.Dial(opts, events)
	if err != nil {
		return nil, err
	}
	return client, nil
}
