package mqtt

import (
	"fmt"
)

// Subscribe registers handler for topic.
//
// The client remembers the subscription and restores it after a reconnect,
// so callers subscribe once per topic. The SUBACK is awaited in the
// background: a rejected subscription is forgotten and reported through
// Events.OnError wrapping ErrSubscribeFailed.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	c.subscriptions[topic] = subscription{
		topic:   topic,
		qos:     qos,
		handler: handler,
	}
	c.subMu.Unlock()

	token := c.client.Subscribe(topic, qos, c.wrapHandler(handler))
	go c.awaitToken(token, ErrSubscribeFailed, topic, func() {
		c.subMu.Lock()
		delete(c.subscriptions, topic)
		c.subMu.Unlock()
	})

	return nil
}

// HasSubscription reports whether topic is tracked for restoration.
// Topics are compared literally; wildcards are not expanded.
func (c *Client) HasSubscription(topic string) bool {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	_, exists := c.subscriptions[topic]
	return exists
}
