// Package accessory models the host-visible proxy for a physical device.
//
// An Accessory carries static identity metadata (manufacturer, model,
// serial number, firmware revision), a small context bag that survives host
// restarts, and a Power service whose On characteristic is the control the
// end user toggles.
//
// The package also defines Host, the capability provider the platform uses
// to register and unregister accessories, and a SQLite repository the
// standalone host uses as its accessory cache.
package accessory
