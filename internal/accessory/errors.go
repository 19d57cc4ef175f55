package accessory

import "errors"

var (
	// ErrAccessoryNotFound is returned when a cached accessory does not exist.
	ErrAccessoryNotFound = errors.New("accessory: not found")

	// ErrInvalidAccessory is returned when an accessory lacks a UUID or display name.
	ErrInvalidAccessory = errors.New("accessory: invalid")

	// ErrNoSetHandler is returned by Characteristic.Set when nothing handles writes.
	ErrNoSetHandler = errors.New("accessory: characteristic is read-only")
)
