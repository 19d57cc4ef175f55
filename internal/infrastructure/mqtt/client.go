package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// newPahoClient is swapped in tests to run the client without a broker.
var newPahoClient = pahomqtt.NewClient

// Client wraps paho.mqtt.golang for a single device broker.
//
// Dial returns immediately; paho keeps retrying the connection in the
// background and every outcome is reported through Events.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Subscriptions are automatically restored on reconnection.
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	opts    Options

	// subscriptions tracks active subscriptions for re-subscription on reconnect.
	subscriptions map[string]subscription
	subMu         sync.RWMutex

	// connected tracks current connection state.
	connected bool
	closed    bool
	connMu    sync.RWMutex

	events Events
	logger Logger

	closeOnce sync.Once
}

// Events receives connection lifecycle notifications. Every field is
// optional. Callbacks run on paho goroutines and must not block.
type Events struct {
	// OnConnect fires on the first connect and on every reconnect.
	OnConnect func()

	// OnConnectionLost fires when an established connection drops.
	OnConnectionLost func(err error)

	// OnReconnecting fires before each automatic reconnect attempt.
	OnReconnecting func()

	// OnError receives asynchronous failures: connect, publish and
	// subscribe tokens that completed with an error.
	OnError func(err error)
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// subscription holds subscription details for re-subscription on reconnect.
type subscription struct {
	topic   string
	qos     byte
	handler MessageHandler
}

// MessageHandler is the callback signature for received messages.
//
// Handlers are invoked in separate goroutines by the paho library.
// They should not block for extended periods.
//
// Parameters:
//   - topic: The topic the message was received on
//   - payload: The raw message payload (typically JSON)
//
// Returns:
//   - error: Logged but does not affect message acknowledgment
type MessageHandler func(topic string, payload []byte) error

// Dial starts connecting to the broker described by opts.
//
// It performs the following setup:
//  1. Validates and builds connection options (broker URL, auth, keepalive)
//  2. Sets up fixed-interval auto-reconnect and connect retry
//  3. Starts the connection without waiting for the broker
//
// Parameters:
//   - opts: Connection options for one device
//   - events: Lifecycle callbacks
//
// Returns:
//   - *Client: Client that is connecting in the background
//   - error: Only when opts are invalid
func Dial(opts Options, events Events) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	po := buildClientOptions(opts)

	c := &Client{
		opts:          opts,
		options:       po,
		events:        events,
		logger:        opts.Logger,
		subscriptions: make(map[string]subscription),
	}

	po.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})

	po.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	po.SetReconnectingHandler(func(_ pahomqtt.Client, _ *pahomqtt.ClientOptions) {
		c.handleReconnecting()
	})

	c.client = newPahoClient(po)
	token := c.client.Connect()
	go c.awaitConnect(token)

	return c, nil
}

// awaitConnect reports a connect token that finished with an error.
// With connect retry enabled this only happens when the client is closed
// mid-attempt or the options are rejected by paho.
func (c *Client) awaitConnect(token pahomqtt.Token) {
	<-token.Done()
	if err := token.Error(); err != nil {
		c.reportError(fmt.Errorf("%w: %w", ErrConnectionFailed, err))
	}
}

// handleConnect is called when the connection is established.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	if c.closed {
		c.connMu.Unlock()
		return
	}
	c.connected = true
	c.connMu.Unlock()

	// Restore subscriptions
	c.restoreSubscriptions()

	if c.events.OnConnect != nil {
		c.events.OnConnect()
	}
}

// handleDisconnect is called when the connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	closed := c.closed
	c.connMu.Unlock()

	if closed {
		return
	}
	if c.events.OnConnectionLost != nil {
		c.events.OnConnectionLost(fmt.Errorf("%w: %w", ErrConnectionLost, err))
	}
}

func (c *Client) handleReconnecting() {
	if c.isClosed() {
		return
	}
	if c.events.OnReconnecting != nil {
		c.events.OnReconnecting()
	}
}

// reportError routes an asynchronous failure to OnError, or the logger
// when no callback is set. Failures after Close are dropped.
func (c *Client) reportError(err error) {
	if c.isClosed() {
		return
	}
	if c.events.OnError != nil {
		c.events.OnError(err)
		return
	}
	if c.logger != nil {
		c.logger.Error("MQTT operation failed", "broker", c.opts.BrokerURL, "error", err)
	}
}

// awaitToken waits for a publish or subscribe token in the background.
func (c *Client) awaitToken(token pahomqtt.Token, kind error, topic string, onFail func()) {
	if !token.WaitTimeout(defaultPublishTimeout) {
		if onFail != nil {
			onFail()
		}
		c.reportError(fmt.Errorf("%w: %s: %w after %v", kind, topic, ErrTimeout, defaultPublishTimeout))
		return
	}
	if err := token.Error(); err != nil {
		if onFail != nil {
			onFail()
		}
		c.reportError(fmt.Errorf("%w: %s: %w", kind, topic, err))
	}
}

// restoreSubscriptions re-subscribes to all tracked topics after reconnect.
func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, sub := range c.subscriptions {
		token := c.client.Subscribe(sub.topic, sub.qos, c.wrapHandler(sub.handler))
		go c.awaitToken(token, ErrSubscribeFailed, sub.topic, nil)
	}
}

// Close disconnects from the broker and stops reconnect attempts.
//
// Close is idempotent. Pending operations get a short quiesce period, and
// no Events callbacks fire after it returns.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.connMu.Lock()
		c.closed = true
		c.connected = false
		c.connMu.Unlock()

		if c.client != nil {
			c.client.Disconnect(defaultDisconnectQuiesce)
		}
	})
	return nil
}

// HealthCheck verifies the MQTT connection is alive and functioning.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	return nil
}

// IsConnected returns the current connection state.
//
// Note: This reflects the last known state. For reliability,
// use HealthCheck which can perform an active test.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

func (c *Client) isClosed() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.closed
}

// wrapHandler wraps a MessageHandler with panic recovery and optional logging.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if c.logger != nil {
					c.logger.Error("MQTT handler panic recovered",
						"topic", msg.Topic(),
						"panic", r,
					)
				}
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			if c.logger != nil {
				c.logger.Warn("MQTT handler returned error",
					"topic", msg.Topic(),
					"error", err,
				)
			}
		}
	}
}
