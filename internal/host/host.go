package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/accessory"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/config"
)

// storeTimeout bounds every cache operation triggered by the platform.
const storeTimeout = 5 * time.Second

// Logger defines the logging interface used by the Host.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Platform is the lifecycle a host drives. *platform.Platform satisfies it.
type Platform interface {
	OnConfigured(cfg *config.PlatformConfig)
	ConfigureAccessory(acc *accessory.Accessory)
	OnReady(ctx context.Context)
	OnShutdown()
}

// entry is a registered accessory and the platform that owns it.
type entry struct {
	plugin   string
	platform string
	acc      *accessory.Accessory
}

// Host implements accessory.Host on top of a Repository.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Host struct {
	repo   accessory.Repository
	logger Logger

	mu         sync.Mutex
	registered map[string]entry
}

// New creates a host backed by repo.
func New(repo accessory.Repository, logger Logger) *Host {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Host{
		repo:       repo,
		logger:     logger,
		registered: make(map[string]entry),
	}
}

// RegisterPlatformAccessories persists new accessories.
func (h *Host) RegisterPlatformAccessories(pluginName, platformName string, accs []*accessory.Accessory) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, acc := range accs {
		if err := h.repo.Save(ctx, pluginName, platformName, acc); err != nil {
			return fmt.Errorf("registering %s: %w", acc.DisplayName, err)
		}
		h.registered[acc.UUID] = entry{plugin: pluginName, platform: platformName, acc: acc}
		h.logger.Info("accessory registered", "name", acc.DisplayName, "uuid", acc.UUID)
	}
	return nil
}

// UpdatePlatformAccessories persists changed metadata of registered
// accessories. Unknown accessories are rejected with
// accessory.ErrAccessoryNotFound.
func (h *Host) UpdatePlatformAccessories(accs []*accessory.Accessory) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, acc := range accs {
		e, ok := h.registered[acc.UUID]
		if !ok {
			return fmt.Errorf("updating %s: %w", acc.UUID, accessory.ErrAccessoryNotFound)
		}
		if err := h.repo.Save(ctx, e.plugin, e.platform, acc); err != nil {
			return fmt.Errorf("updating %s: %w", acc.DisplayName, err)
		}
		h.registered[acc.UUID] = entry{plugin: e.plugin, platform: e.platform, acc: acc}
	}
	return nil
}

// UnregisterPlatformAccessories removes accessories from the cache. An
// accessory that is already gone is not an error.
func (h *Host) UnregisterPlatformAccessories(_, _ string, accs []*accessory.Accessory) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for _, acc := range accs {
		delete(h.registered, acc.UUID)
		err := h.repo.Delete(ctx, acc.UUID)
		if err != nil && !errors.Is(err, accessory.ErrAccessoryNotFound) {
			errs = append(errs, fmt.Errorf("unregistering %s: %w", acc.DisplayName, err))
			continue
		}
		h.logger.Info("accessory unregistered", "name", acc.DisplayName, "uuid", acc.UUID)
	}
	return errors.Join(errs...)
}

// Run drives p from start to shutdown. It returns once ctx is cancelled
// and the platform has shut down, or earlier if the cache cannot be read.
func (h *Host) Run(ctx context.Context, p Platform, cfg *config.PlatformConfig) error {
	cached, err := h.repo.List(ctx, accessory.PluginName, accessory.PlatformName)
	if err != nil {
		return fmt.Errorf("loading accessory cache: %w", err)
	}

	h.mu.Lock()
	for _, acc := range cached {
		h.registered[acc.UUID] = entry{plugin: accessory.PluginName, platform: accessory.PlatformName, acc: acc}
	}
	h.mu.Unlock()

	p.OnConfigured(cfg)
	for _, acc := range cached {
		p.ConfigureAccessory(acc)
	}
	p.OnReady(ctx)

	<-ctx.Done()

	p.OnShutdown()

	// The launch context is gone by now.
	saveCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return h.Save(saveCtx)
}

// Save writes every registered accessory back to the cache, capturing the
// last power state.
func (h *Host) Save(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for _, e := range h.registered {
		if err := h.repo.Save(ctx, e.plugin, e.platform, e.acc); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		h.logger.Error("saving accessory cache failed", "error", err)
		return err
	}
	h.logger.Info("accessory cache saved", "count", len(h.registered))
	return nil
}

// Registered returns the accessories the host currently knows about.
func (h *Host) Registered() []*accessory.Accessory {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*accessory.Accessory, 0, len(h.registered))
	for _, e := range h.registered {
		out = append(out, e.acc)
	}
	return out
}
