package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/accessory"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/config"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/vacuum"
)

// State is the platform's lifecycle state.
type State int

// Lifecycle states.
const (
	StateUninitialized State = iota
	StateConfiguring
	StateReady
	StateShuttingDown
	StateInert
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfiguring:
		return "configuring"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateInert:
		return "inert"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Logger defines the logging interface used by the Platform.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Platform.
type Options struct {
	// Host publishes accessories. Without it the platform goes inert.
	Host accessory.Host

	Logger Logger

	// SessionLogger is handed to every session. Sessions tag their own
	// entries with the serial number. Defaults to Logger.
	SessionLogger vacuum.Logger

	// Dial opens device connections. Defaults to vacuum.DialMQTT.
	Dial vacuum.Dialer

	// Recorder receives every session's statuses. Optional.
	Recorder vacuum.StatusRecorder

	Settings vacuum.Settings

	// Now is the sessions' clock. Defaults to time.Now.
	Now func() time.Time
}

// Platform is the device registry.
//
// The host calls the lifecycle methods sequentially. Accessors are safe to
// call from any goroutine.
type Platform struct {
	opts   Options
	logger Logger

	mu          sync.RWMutex
	state       State
	cfg         *config.PlatformConfig
	accessories []*accessory.Accessory
	sessions    []*vacuum.Session
}

// New creates a platform in the Uninitialized state.
func New(opts Options) *Platform {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Platform{
		opts:   opts,
		logger: logger,
		state:  StateUninitialized,
	}
}

// OnConfigured receives the platform configuration. A nil configuration or
// a missing host leaves the platform inert.
func (p *Platform) OnConfigured(cfg *config.PlatformConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateUninitialized {
		p.logger.Warn("platform already configured", "state", p.state.String())
		return
	}

	if cfg == nil {
		p.logger.Info("no platform configuration, vacuum platform disabled")
		p.state = StateInert
		return
	}

	if p.opts.Host == nil {
		p.logger.Warn("host API not available, vacuum platform disabled")
		p.state = StateInert
		return
	}

	p.cfg = cfg
	p.state = StateConfiguring
	p.logger.Info("platform configured", "name", cfg.Name, "devices", cfg.Devices.Len())
}

// ConfigureAccessory receives an accessory the host restored from its
// cache. Accessories are only accepted before OnReady.
func (p *Platform) ConfigureAccessory(acc *accessory.Accessory) {
	if acc == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateConfiguring {
		p.logger.Debug("ignoring cached accessory", "uuid", acc.UUID, "state", p.state.String())
		return
	}

	for _, known := range p.accessories {
		if known.UUID == acc.UUID {
			return
		}
	}

	p.logger.Info("loading accessory from cache", "name", acc.DisplayName, "serial", acc.Context.SerialNumber)
	p.accessories = append(p.accessories, acc)
}

// OnReady creates the device sessions and reconciles the tracked
// accessories with them. It runs once.
//
// Cached accessories are only unregistered after every configured device
// was looked at. A devices value that is not a list halts setup with the
// cache untouched; a ctx cancelled part way keeps the accessories of the
// devices not reached.
func (p *Platform) OnReady(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateConfiguring:
	case StateInert:
		return
	default:
		p.logger.Warn("platform not ready for launch", "state", p.state.String())
		return
	}

	p.state = StateReady

	devices := p.cfg.Devices
	if !devices.IsSequence() {
		p.logger.Warn("devices must be a list, no vacuums configured")
		return
	}

	var complete bool
	p.sessions, complete = p.startSessions(ctx, devices.Entries())
	if complete {
		p.reconcile()
	} else {
		p.trackSessions()
	}

	p.logger.Info("vacuum platform ready",
		"sessions", len(p.sessions),
		"accessories", len(p.accessories),
	)
}

// startSessions decodes every device entry and creates its session, in
// configuration order. complete is false when ctx ended before every entry
// was looked at. Caller must hold p.mu.
func (p *Platform) startSessions(ctx context.Context, entries []config.DeviceEntry) (sessions []*vacuum.Session, complete bool) {
	seen := make(map[string]bool)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("device setup interrupted, keeping cached accessories", "error", err)
			return sessions, false
		}

		if entry.Err != nil {
			p.logger.Warn("skipping malformed device entry", "device", entry.Label(), "error", entry.Err)
			continue
		}

		creds, err := DecodeCredentials(entry.Credentials)
		if err != nil {
			p.logger.Warn("skipping device with invalid credentials", "device", entry.Label(), "error", err)
			continue
		}

		if seen[creds.Serial] {
			p.logger.Warn("skipping duplicate device", "serial", creds.Serial, "index", entry.Index)
			continue
		}
		seen[creds.Serial] = true

		session, err := p.newSession(entry, creds)
		if err != nil {
			if errors.Is(err, vacuum.ErrNotVacuum) {
				p.logger.Warn("device is not a supported vacuum", "serial", creds.Serial, "product_type", creds.ProductType)
			} else {
				p.logger.Error("creating device session failed", "serial", creds.Serial, "error", err)
			}
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, true
}

func (p *Platform) newSession(entry config.DeviceEntry, creds Credentials) (*vacuum.Session, error) {
	name := creds.Name
	if entry.Name != "" {
		name = entry.Name
	}

	var logger vacuum.Logger = p.logger
	if p.opts.SessionLogger != nil {
		logger = p.opts.SessionLogger
	}

	return vacuum.New(vacuum.Params{
		Name:         name,
		SerialNumber: creds.Serial,
		ProductType:  creds.ProductType,
		Version:      creds.Version,
		Password:     creds.LocalCredentials,
		IPAddress:    entry.IPAddress,
	}, vacuum.Deps{
		Host:      p.opts.Host,
		Accessory: p.cachedAccessory(creds.Serial),
		Dial:      p.opts.Dial,
		Recorder:  p.opts.Recorder,
		Logger:    logger,
		Settings:  p.opts.Settings,
		Now:       p.opts.Now,
	})
}

// cachedAccessory finds the tracked accessory for a serial number.
// Caller must hold p.mu.
func (p *Platform) cachedAccessory(serialNumber string) *accessory.Accessory {
	uuid := accessory.UUIDFor(serialNumber)
	for _, acc := range p.accessories {
		if acc.UUID == uuid || acc.Context.SerialNumber == serialNumber {
			return acc
		}
	}
	return nil
}

// reconcile makes the tracked accessories exactly the live sessions'
// accessories and unregisters the rest. Caller must hold p.mu.
func (p *Platform) reconcile() {
	live := make(map[*accessory.Accessory]bool, len(p.sessions))
	tracked := make([]*accessory.Accessory, 0, len(p.sessions))
	for _, s := range p.sessions {
		live[s.Accessory()] = true
		tracked = append(tracked, s.Accessory())
	}

	var stale []*accessory.Accessory
	for _, acc := range p.accessories {
		if !live[acc] {
			stale = append(stale, acc)
		}
	}

	if len(stale) > 0 {
		for _, acc := range stale {
			p.logger.Info("removing stale accessory", "name", acc.DisplayName, "serial", acc.Context.SerialNumber)
		}
		err := p.opts.Host.UnregisterPlatformAccessories(accessory.PluginName, accessory.PlatformName, stale)
		if err != nil {
			p.logger.Error("unregistering stale accessories failed", "count", len(stale), "error", err)
		}
	}

	p.accessories = tracked
}

// trackSessions adds the sessions' accessories to the tracked set without
// unregistering anything. Caller must hold p.mu.
func (p *Platform) trackSessions() {
	tracked := make(map[*accessory.Accessory]bool, len(p.accessories))
	for _, acc := range p.accessories {
		tracked[acc] = true
	}
	for _, s := range p.sessions {
		if acc := s.Accessory(); !tracked[acc] {
			tracked[acc] = true
			p.accessories = append(p.accessories, acc)
		}
	}
}

// OnShutdown shuts down every session. Only the first call has any effect.
func (p *Platform) OnShutdown() {
	p.mu.Lock()
	switch p.state {
	case StateShuttingDown, StateInert, StateUninitialized:
		p.mu.Unlock()
		return
	}
	p.state = StateShuttingDown
	sessions := append([]*vacuum.Session(nil), p.sessions...)
	p.mu.Unlock()

	p.logger.Info("shutting down vacuum platform", "sessions", len(sessions))
	for _, s := range sessions {
		s.Shutdown()
	}
}

// State returns the lifecycle state.
func (p *Platform) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Sessions returns the live sessions in configuration order.
func (p *Platform) Sessions() []*vacuum.Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*vacuum.Session(nil), p.sessions...)
}

// Session returns the session for a serial number.
func (p *Platform) Session(serialNumber string) (*vacuum.Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.sessions {
		if s.SerialNumber() == serialNumber {
			return s, true
		}
	}
	return nil, false
}

// Accessories returns the tracked accessories.
func (p *Platform) Accessories() []*accessory.Accessory {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*accessory.Accessory(nil), p.accessories...)
}
