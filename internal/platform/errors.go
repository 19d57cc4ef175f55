package platform

import "errors"

// Domain errors for the platform package.
var (
	// ErrInvalidCredentials is returned when a credentials blob is not
	// base64 encoded JSON.
	ErrInvalidCredentials = errors.New("platform: invalid credentials")

	// ErrMissingField is returned when a decoded credentials blob lacks a
	// required field.
	ErrMissingField = errors.New("platform: credentials missing required field")
)
