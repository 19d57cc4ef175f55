package mqtt

import (
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Connection constants.
const (
	// defaultPort is the vacuum's local broker port.
	defaultPort = 1883

	// defaultConnectTimeout is the maximum time paho waits for a CONNACK.
	defaultConnectTimeout = 30 * time.Second

	// defaultPublishTimeout bounds how long a background watcher waits on a token.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 250 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 10 * time.Second

	// defaultReconnectInterval is the fixed delay between reconnect attempts.
	defaultReconnectInterval = time.Second

	// defaultProtocolVersion is MQTT 3.1.1.
	defaultProtocolVersion = 4

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// clientIDRandomBytes is how many random bytes follow the client id prefix.
	clientIDRandomBytes = 4
)

// Options describes a single authenticated broker connection.
//
// Every vacuum runs its own broker, so one Options value maps to one device.
type Options struct {
	// BrokerURL is the broker address, e.g. "mqtt://192.168.1.50:1883".
	BrokerURL string

	// ClientID identifies this connection to the broker. Use NewClientID
	// so concurrent sessions never collide.
	ClientID string

	// Username and Password authenticate the connection. For a Dyson
	// vacuum these are the serial number and the local credential.
	Username string
	Password string

	// ProtocolVersion is 3 (MQTT 3.1) or 4 (MQTT 3.1.1). Zero means 4.
	ProtocolVersion uint

	// KeepAlive is the PINGREQ interval. Zero means 10s.
	KeepAlive time.Duration

	// ConnectTimeout bounds a single connect attempt. Zero means 30s.
	ConnectTimeout time.Duration

	// ReconnectInterval is the fixed delay between reconnect attempts.
	// Zero means 1s.
	ReconnectInterval time.Duration

	// Logger receives handler errors and recovered panics. Optional.
	Logger Logger
}

// validate checks the fields paho cannot default for us.
func (o Options) validate() error {
	if o.BrokerURL == "" {
		return fmt.Errorf("%w: broker URL is required", ErrInvalidOptions)
	}
	if o.ClientID == "" {
		return fmt.Errorf("%w: client ID is required", ErrInvalidOptions)
	}
	if o.ProtocolVersion != 0 && o.ProtocolVersion != 3 && o.ProtocolVersion != 4 {
		return fmt.Errorf("%w: protocol version %d (must be 3 or 4)", ErrInvalidOptions, o.ProtocolVersion)
	}
	return nil
}

// buildClientOptions creates paho MQTT options for one device connection.
//
// This configures:
//   - Broker URL and client identification
//   - Username/password authentication
//   - Clean session mode
//   - Auto-reconnect with a fixed interval (min == max, so no backoff growth)
//   - Connect retry so the first connect keeps trying in the background
//   - Keepalive and connect timeout
func buildClientOptions(o Options) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	opts.AddBroker(o.BrokerURL)
	opts.SetClientID(o.ClientID)

	if o.Username != "" {
		opts.SetUsername(o.Username)
		opts.SetPassword(o.Password)
	}

	protocolVersion := o.ProtocolVersion
	if protocolVersion == 0 {
		protocolVersion = defaultProtocolVersion
	}
	opts.SetProtocolVersion(protocolVersion)

	opts.SetCleanSession(true)

	reconnect := o.ReconnectInterval
	if reconnect <= 0 {
		reconnect = defaultReconnectInterval
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(reconnect)
	opts.SetMaxReconnectInterval(reconnect)

	connectTimeout := o.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	opts.SetConnectTimeout(connectTimeout)

	keepAlive := o.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	opts.SetKeepAlive(keepAlive)

	return opts
}

// BrokerURL builds the mqtt:// URL for a device address.
//
// The address may carry its own port ("10.0.0.5:1884"); otherwise port is
// appended, or 1883 when port is zero. IPv6 literals are bracketed.
func BrokerURL(address string, port int) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: device address is required", ErrInvalidOptions)
	}
	if strings.Contains(address, "://") {
		return address, nil
	}

	if _, _, err := net.SplitHostPort(address); err == nil {
		return "mqtt://" + address, nil
	}

	if port == 0 {
		port = defaultPort
	}
	return "mqtt://" + net.JoinHostPort(strings.Trim(address, "[]"), strconv.Itoa(port)), nil
}

// NewClientID returns prefix followed by eight random hex characters.
func NewClientID(prefix string) string {
	id := uuid.New()
	return prefix + hex.EncodeToString(id[:clientIDRandomBytes])
}
