package vacuum

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/accessory"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/mqtt"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/product"
)

// DefaultName is used when neither the credentials nor the config name the device.
const DefaultName = "Dyson Vacuum"

// clientIDPrefix prefixes the randomized MQTT client identifier.
const clientIDPrefix = "dyson_"

// eventBuffer is the capacity of a session's event channel.
const eventBuffer = 32

// ConnState is the session's view of its transport.
type ConnState int

// Connection states.
const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateFailed
)

// String returns the state name used in logs.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Params identify one device. They come from the decoded credentials and
// the device's config entry.
type Params struct {
	Name         string
	SerialNumber string
	ProductType  string
	Version      string
	Password     string
	IPAddress    string
}

// Settings are the transport settings shared by all sessions. Zero values
// fall back to the transport defaults.
type Settings struct {
	Port              int
	KeepAlive         time.Duration
	ReconnectInterval time.Duration
	ConnectTimeout    time.Duration
	ProtocolVersion   uint
	QoS               byte
}

// Deps are a session's collaborators.
type Deps struct {
	// Host registers the session's accessory. Optional.
	Host accessory.Host

	// Accessory is a cached accessory to reuse instead of registering a
	// new one. Optional.
	Accessory *accessory.Accessory

	// Dial opens the transport. Defaults to DialMQTT.
	Dial Dialer

	// Recorder receives decoded statuses. Optional.
	Recorder StatusRecorder

	Logger   Logger
	Settings Settings

	// Now is the clock used for command timestamps. Defaults to time.Now.
	Now func() time.Time
}

type eventKind int

const (
	eventConnected eventKind = iota
	eventConnectionLost
	eventReconnecting
	eventError
	eventMessage
)

type event struct {
	kind    eventKind
	err     error
	payload []byte
}

// Session manages one robot: its connection, accessory and commands.
//
// Thread Safety:
//   - Commands and accessors are safe for concurrent use.
//   - Connection state changes only on the session's control loop.
type Session struct {
	serialNumber string
	productType  string
	version      string
	name         string
	info         product.Info

	statusTopic  string
	commandTopic string
	qos          byte

	acc      *accessory.Accessory
	conn     Conn
	logger   Logger
	recorder StatusRecorder
	now      func() time.Time

	events   chan event
	done     chan struct{}
	loopDone chan struct{}

	mu    sync.RWMutex
	state ConnState
	last  Status

	// subscribed is owned by the control loop.
	subscribed bool

	shutdownOnce sync.Once
}

// New builds a session and starts connecting to the robot.
//
// It:
//  1. Resolves the product type and rejects anything that is not a vacuum
//  2. Defaults the display name
//  3. Dials the robot's broker (non-blocking)
//  4. Registers a new accessory, or refreshes the cached one
//  5. Starts the control loop
//
// The broker is dialed before the host hears about the accessory, so a
// dial failure never leaves a registered accessory behind. A failed
// registration closes the connection instead. Transport events wait in
// the event channel until the control loop starts.
//
// A failure affects only this session.
func New(p Params, deps Deps) (*Session, error) {
	if p.SerialNumber == "" || p.Password == "" {
		return nil, ErrMissingCredentials
	}

	info := product.Lookup(p.ProductType)
	if !info.HasVacuum {
		return nil, fmt.Errorf("%w: serial %s has product type %q", ErrNotVacuum, p.SerialNumber, p.ProductType)
	}

	brokerURL, err := mqtt.BrokerURL(p.IPAddress, deps.Settings.Port)
	if err != nil {
		return nil, fmt.Errorf("%w: serial %s", ErrMissingAddress, p.SerialNumber)
	}

	name := p.Name
	if name == "" {
		name = DefaultName
	}

	s := &Session{
		serialNumber: p.SerialNumber,
		productType:  p.ProductType,
		version:      p.Version,
		name:         name,
		info:         info,
		statusTopic:  mqtt.Topics{}.DeviceStatus(p.ProductType, p.SerialNumber),
		commandTopic: mqtt.Topics{}.DeviceCommand(p.ProductType, p.SerialNumber),
		qos:          deps.Settings.QoS,
		logger:       deps.Logger,
		recorder:     deps.Recorder,
		now:          deps.Now,
		events:       make(chan event, eventBuffer),
		done:         make(chan struct{}),
		loopDone:     make(chan struct{}),
	}
	if s.logger == nil {
		s.logger = noopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.logger.Info("vacuum device found",
		"serial", s.serialNumber,
		"product_type", s.productType,
		"model", info.Model,
	)

	dial := deps.Dial
	if dial == nil {
		dial = DialMQTT
	}

	s.state = StateConnecting
	conn, err := dial(mqtt.Options{
		BrokerURL:         brokerURL,
		ClientID:          mqtt.NewClientID(clientIDPrefix),
		Username:          p.SerialNumber,
		Password:          p.Password,
		ProtocolVersion:   deps.Settings.ProtocolVersion,
		KeepAlive:         deps.Settings.KeepAlive,
		ConnectTimeout:    deps.Settings.ConnectTimeout,
		ReconnectInterval: deps.Settings.ReconnectInterval,
		Logger:            s.logger,
	}, mqtt.Events{
		OnConnect:        func() { s.post(event{kind: eventConnected}) },
		OnConnectionLost: func(err error) { s.post(event{kind: eventConnectionLost, err: err}) },
		OnReconnecting:   func() { s.post(event{kind: eventReconnecting}) },
		OnError:          func(err error) { s.post(event{kind: eventError, err: err}) },
	})
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", brokerURL, err)
	}
	s.conn = conn

	if err := s.attachAccessory(deps.Host, deps.Accessory); err != nil {
		conn.Close() //nolint:errcheck // session is abandoned
		return nil, err
	}

	go s.run()

	return s, nil
}

// attachAccessory wires the session to its accessory and tells the host.
func (s *Session) attachAccessory(host accessory.Host, cached *accessory.Accessory) error {
	acc := cached
	if acc == nil {
		acc = accessory.New(s.name, s.serialNumber)
	}
	acc.DisplayName = s.name
	acc.SetInfo(accessory.Info{
		Manufacturer:     accessory.Manufacturer,
		Model:            s.info.Model,
		SerialNumber:     s.serialNumber,
		FirmwareRevision: s.version,
	})

	power := acc.EnsurePowerService(s.name + " Power")
	power.On.OnSet(s.handlePowerSet)
	s.acc = acc

	if host == nil {
		return nil
	}

	accs := []*accessory.Accessory{acc}
	if cached != nil {
		if err := host.UpdatePlatformAccessories(accs); err != nil {
			return fmt.Errorf("updating accessory for %s: %w", s.serialNumber, err)
		}
		return nil
	}
	if err := host.RegisterPlatformAccessories(accessory.PluginName, accessory.PlatformName, accs); err != nil {
		return fmt.Errorf("registering accessory for %s: %w", s.serialNumber, err)
	}
	return nil
}

// handlePowerSet runs when the user toggles the power characteristic.
func (s *Session) handlePowerSet(on bool) error {
	if !on {
		s.logger.Info("turning off the vacuum", "serial", s.serialNumber)
		return s.AbortCleaning()
	}

	s.logger.Info("turning on the vacuum", "serial", s.serialNumber)
	if s.LastStatus().Paused() {
		return s.ResumeCleaning()
	}
	return s.StartCleaning()
}

// post hands an event to the control loop. Events after Shutdown are dropped.
func (s *Session) post(ev event) {
	select {
	case <-s.done:
	case s.events <- ev:
	}
}

// run is the session's control loop.
func (s *Session) run() {
	defer close(s.loopDone)

	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.handleEvent(ev)
		}
	}
}

func (s *Session) handleEvent(ev event) {
	switch ev.kind {
	case eventConnected:
		s.handleConnected()

	case eventConnectionLost:
		s.setState(StateFailed)
		s.logger.Error("MQTT connection lost", "serial", s.serialNumber, "error", ev.err)

	case eventReconnecting:
		s.setState(StateConnecting)
		s.logger.Debug("MQTT reconnecting", "serial", s.serialNumber)

	case eventError:
		if errors.Is(ev.err, mqtt.ErrSubscribeFailed) {
			s.subscribed = false
		}
		if errors.Is(ev.err, mqtt.ErrConnectionFailed) {
			s.setState(StateFailed)
		}
		s.logger.Error("MQTT error", "serial", s.serialNumber, "error", ev.err)

	case eventMessage:
		s.handleMessage(ev.payload)
	}
}

// handleConnected subscribes on the first connect; the transport restores
// the subscription after reconnects. Every connect asks for fresh state.
func (s *Session) handleConnected() {
	s.setState(StateConnected)
	s.logger.Info("connected to MQTT server", "serial", s.serialNumber)

	if !s.subscribed {
		if err := s.conn.Subscribe(s.statusTopic, s.qos, s.onMessage); err != nil {
			s.logger.Error("status subscription failed", "serial", s.serialNumber, "topic", s.statusTopic, "error", err)
			return
		}
		s.subscribed = true
	}

	if err := s.RequestCurrentState(); err != nil {
		s.logger.Debug("current state request failed", "serial", s.serialNumber, "error", err)
	}
}

// onMessage is the transport handler for the status topic.
func (s *Session) onMessage(_ string, payload []byte) error {
	s.post(event{kind: eventMessage, payload: payload})
	return nil
}

func (s *Session) handleMessage(payload []byte) {
	s.logger.Debug("MQTT message received", "serial", s.serialNumber, "payload", string(payload))

	status, err := DecodeStatus(payload)
	if err != nil {
		s.logger.Debug("ignoring status payload", "serial", s.serialNumber, "error", err)
		return
	}

	// Only the control loop writes last, so reading it unlocked here is safe.
	merged := s.last.Merge(status)

	if power := s.acc.Power(); power != nil {
		power.On.Update(merged.Running())
	}

	s.mu.Lock()
	s.last = merged
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.RecordStatus(s.serialNumber, s.productType, merged)
	}
}

func (s *Session) setState(state ConnState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Shutdown stops the control loop and closes the connection. It is safe
// to call more than once and before the robot ever connected; only the
// first call has any effect.
func (s *Session) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.done)
		<-s.loopDone

		if err := s.conn.Close(); err != nil {
			s.logger.Warn("MQTT close failed", "serial", s.serialNumber, "error", err)
		}
		s.setState(StateDisconnected)
		s.logger.Info("MQTT client disconnected", "serial", s.serialNumber)
	})
}

// SerialNumber returns the robot's serial number.
func (s *Session) SerialNumber() string { return s.serialNumber }

// ProductType returns the robot's product-type code.
func (s *Session) ProductType() string { return s.productType }

// Name returns the display name.
func (s *Session) Name() string { return s.name }

// Info returns the resolved product metadata.
func (s *Session) Info() product.Info { return s.info }

// Accessory returns the session's accessory.
func (s *Session) Accessory() *accessory.Accessory { return s.acc }

// State returns the current connection state.
func (s *Session) State() ConnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastStatus returns the merged status reported so far.
func (s *Session) LastStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
