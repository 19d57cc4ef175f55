package vacuum

import "errors"

// Domain errors for the vacuum package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, vacuum.ErrNotConnected) {
//	    // command dropped, nothing was queued
//	}
var (
	// ErrNotVacuum is returned when the product type is not a known vacuum.
	ErrNotVacuum = errors.New("vacuum: product is not a vacuum")

	// ErrNotConnected is returned when a command is issued while the
	// session is not connected. Commands are never queued.
	ErrNotConnected = errors.New("vacuum: device not connected")

	// ErrInvalidPowerMode is returned for an empty power mode.
	ErrInvalidPowerMode = errors.New("vacuum: invalid power mode")

	// ErrMissingAddress is returned when the device has no IP address.
	ErrMissingAddress = errors.New("vacuum: device IP address is required")

	// ErrMissingCredentials is returned when the serial number or local
	// credential is empty.
	ErrMissingCredentials = errors.New("vacuum: serial number and local credentials are required")
)
