package accessory

// Host is the capability provider a platform uses to publish accessories.
//
// Implementations own persistence: accessories registered here are handed
// back to the platform on the next start, before it reconciles.
type Host interface {
	// RegisterPlatformAccessories adds new accessories under a plugin platform.
	RegisterPlatformAccessories(pluginName, platformName string, accessories []*Accessory) error

	// UpdatePlatformAccessories persists changed metadata of known accessories.
	UpdatePlatformAccessories(accessories []*Accessory) error

	// UnregisterPlatformAccessories removes accessories for good.
	UnregisterPlatformAccessories(pluginName, platformName string, accessories []*Accessory) error
}
