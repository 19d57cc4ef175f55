// Package host is the standalone accessory host.
//
// It stands in for the home-automation hub: it owns the accessory cache,
// hands cached accessories back to the platform on start, persists
// registrations and removals, and drives the platform lifecycle from
// process start to signal-triggered shutdown.
//
//	Run:  List cache ─▶ OnConfigured ─▶ ConfigureAccessory* ─▶ OnReady ─▶ wait ─▶ OnShutdown ─▶ save
package host
