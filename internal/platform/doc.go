// Package platform is the device registry: it turns the configured device
// list into one vacuum session per robot and keeps the host's accessory
// set in step with those sessions.
//
// # Lifecycle
//
// The host drives the platform through explicit calls:
//
//	Uninitialized ──OnConfigured──▶ Configuring ──OnReady──▶ Ready ──OnShutdown──▶ ShuttingDown
//	      │
//	      └── no configuration or no host ──▶ Inert (every later call is a no-op)
//
// Between OnConfigured and OnReady the host hands back the accessories it
// cached on the previous run via ConfigureAccessory. OnReady decodes each
// device's credentials, starts the sessions, and reconciles: cached
// accessories whose serial number matches no live session are
// unregistered, and every live session's accessory is tracked.
//
// A bad device entry only disables that device; the platform itself never
// fails.
package platform
