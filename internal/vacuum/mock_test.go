package vacuum

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/accessory"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/mqtt"
)

// published is one captured Publish call.
type published struct {
	topic   string
	payload []byte
	qos     byte
}

// MockConn is an in-memory Conn that lets tests drive the transport events.
type MockConn struct {
	mu         sync.Mutex
	opts       mqtt.Options
	events     mqtt.Events
	handlers   map[string]mqtt.MessageHandler
	publishes  []published
	subscribes []string
	closeCalls int
	publishErr error
}

func newMockConn() *MockConn {
	return &MockConn{handlers: make(map[string]mqtt.MessageHandler)}
}

// dialer returns a Dialer that hands out this connection.
func (m *MockConn) dialer() Dialer {
	return func(opts mqtt.Options, events mqtt.Events) (Conn, error) {
		m.mu.Lock()
		m.opts = opts
		m.events = events
		m.mu.Unlock()
		return m, nil
	}
}

func (m *MockConn) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = handler
	m.subscribes = append(m.subscribes, topic)
	return nil
}

func (m *MockConn) Publish(topic string, payload []byte, qos byte, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishes = append(m.publishes, published{topic: topic, payload: payload, qos: qos})
	return nil
}

func (m *MockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return nil
}

func (m *MockConn) SimulateConnect() {
	m.mu.Lock()
	fn := m.events.OnConnect
	m.mu.Unlock()
	fn()
}

func (m *MockConn) SimulateConnectionLost(err error) {
	m.mu.Lock()
	fn := m.events.OnConnectionLost
	m.mu.Unlock()
	fn(err)
}

func (m *MockConn) SimulateReconnecting() {
	m.mu.Lock()
	fn := m.events.OnReconnecting
	m.mu.Unlock()
	fn()
}

func (m *MockConn) SimulateError(err error) {
	m.mu.Lock()
	fn := m.events.OnError
	m.mu.Unlock()
	fn(err)
}

// SimulateMessage delivers payload to the handler subscribed on topic.
func (m *MockConn) SimulateMessage(topic string, payload []byte) error {
	m.mu.Lock()
	handler, ok := m.handlers[topic]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no subscription on %s", topic)
	}
	return handler(topic, payload)
}

func (m *MockConn) Published() []published {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]published, len(m.publishes))
	copy(out, m.publishes)
	return out
}

func (m *MockConn) Subscribed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.subscribes))
	copy(out, m.subscribes)
	return out
}

func (m *MockConn) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

func (m *MockConn) Options() mqtt.Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// MockHost records accessory registrations.
type MockHost struct {
	mu           sync.Mutex
	registered   []*accessory.Accessory
	updated      []*accessory.Accessory
	unregistered []*accessory.Accessory
	registerErr  error
}

func (h *MockHost) RegisterPlatformAccessories(_, _ string, accs []*accessory.Accessory) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.registerErr != nil {
		return h.registerErr
	}
	h.registered = append(h.registered, accs...)
	return nil
}

func (h *MockHost) UpdatePlatformAccessories(accs []*accessory.Accessory) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updated = append(h.updated, accs...)
	return nil
}

func (h *MockHost) UnregisterPlatformAccessories(_, _ string, accs []*accessory.Accessory) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregistered = append(h.unregistered, accs...)
	return nil
}

func (h *MockHost) counts() (registered, updated int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.registered), len(h.updated)
}

// logEntry is one captured log call.
type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger captures log calls.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

// count returns how many entries were logged at level with msg. An empty
// msg matches every message.
func (l *recordingLogger) count(level, msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level && (msg == "" || e.msg == msg) {
			n++
		}
	}
	return n
}

// recordingRecorder captures forwarded statuses.
type recordingRecorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *recordingRecorder) RecordStatus(_, _ string, status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recordingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statuses)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

var errMock = errors.New("mock failure")
