package accessory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Host-side registration names.
const (
	PluginName   = "homebridge-dyson-vacuum"
	PlatformName = "DysonVacuumPlatform"
)

// Manufacturer is reported on every accessory this plugin creates.
const Manufacturer = "Dyson"

// KindVacuum tags the context of vacuum accessories.
const KindVacuum = "VacuumAccessory"

// powerServiceSubtype distinguishes the power service from any other
// service of the same type on the accessory.
const powerServiceSubtype = "vacuumPower"

// namespace scopes accessory UUIDs to this plugin.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/lvanness7690/homebridge-dyson-heurist"))

// UUIDFor returns the stable accessory UUID for a serial number.
// The same serial always maps to the same UUID across restarts.
func UUIDFor(serialNumber string) string {
	return uuid.NewSHA1(namespace, []byte(serialNumber)).String()
}

// Info is the accessory information service.
type Info struct {
	Manufacturer     string
	Model            string
	SerialNumber     string
	FirmwareRevision string
}

// Context is the persisted per-accessory state the platform uses to match
// cached accessories back to configured devices.
type Context struct {
	SerialNumber string `json:"serialNumber"`
	Kind         string `json:"kind"`
}

// Accessory is a host-visible proxy for one physical device.
type Accessory struct {
	UUID        string
	DisplayName string
	Context     Context

	mu    sync.RWMutex
	info  Info
	power *PowerService
}

// New creates a vacuum accessory for serialNumber.
func New(displayName, serialNumber string) *Accessory {
	return &Accessory{
		UUID:        UUIDFor(serialNumber),
		DisplayName: displayName,
		Context: Context{
			SerialNumber: serialNumber,
			Kind:         KindVacuum,
		},
		info: Info{
			Manufacturer: Manufacturer,
			SerialNumber: serialNumber,
		},
	}
}

// Validate checks the fields a host needs to persist the accessory.
func (a *Accessory) Validate() error {
	if a.UUID == "" {
		return fmt.Errorf("%w: uuid is required", ErrInvalidAccessory)
	}
	if a.DisplayName == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidAccessory)
	}
	return nil
}

// Info returns the accessory information.
func (a *Accessory) Info() Info {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.info
}

// SetInfo replaces the accessory information.
func (a *Accessory) SetInfo(info Info) {
	a.mu.Lock()
	a.info = info
	a.mu.Unlock()
}

// Power returns the power service, or nil if none has been added.
func (a *Accessory) Power() *PowerService {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.power
}

// EnsurePowerService returns the power service, adding it if missing.
// Accessories restored from a cache come back without services.
func (a *Accessory) EnsurePowerService(name string) *PowerService {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.power == nil {
		a.power = &PowerService{
			Name:    name,
			Subtype: powerServiceSubtype,
			On:      &Characteristic{},
		}
	}
	a.power.Name = name
	return a.power
}

// PowerService exposes the vacuum's on/off control.
type PowerService struct {
	Name    string
	Subtype string
	On      *Characteristic
}

// SetHandler handles a user write to a characteristic. A non-nil error
// rejects the write and leaves the stored value unchanged.
type SetHandler func(value bool) error

// Characteristic is a single boolean property of a service.
type Characteristic struct {
	mu    sync.RWMutex
	value bool
	onSet SetHandler
}

// Value returns the last stored value.
func (c *Characteristic) Value() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Update stores a value reported by the device without invoking the set
// handler.
func (c *Characteristic) Update(value bool) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// OnSet installs the handler for user writes, replacing any previous one.
func (c *Characteristic) OnSet(handler SetHandler) {
	c.mu.Lock()
	c.onSet = handler
	c.mu.Unlock()
}

// Set applies a user write: the handler runs first and the value is stored
// only if it succeeds.
func (c *Characteristic) Set(value bool) error {
	c.mu.RLock()
	handler := c.onSet
	c.mu.RUnlock()

	if handler == nil {
		return ErrNoSetHandler
	}
	if err := handler(value); err != nil {
		return err
	}

	c.Update(value)
	return nil
}
