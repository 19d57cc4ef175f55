package platform

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Credentials is the decoded form of a device's credentials blob, as
// produced by the credentials generator from the Dyson cloud account.
type Credentials struct {
	Name             string `json:"Name"`
	Serial           string `json:"Serial"`
	ProductType      string `json:"ProductType"`
	Version          string `json:"Version"`
	LocalCredentials string `json:"LocalCredentials"`
}

// DecodeCredentials decodes a base64 encoded JSON credentials blob. The
// padding may be left off. Serial and LocalCredentials are required.
func DecodeCredentials(blob string) (Credentials, error) {
	blob = strings.TrimSpace(blob)
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		var rawErr error
		if raw, rawErr = base64.RawStdEncoding.DecodeString(blob); rawErr != nil {
			return Credentials{}, fmt.Errorf("%w: base64: %w", ErrInvalidCredentials, err)
		}
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: json: %w", ErrInvalidCredentials, err)
	}

	if creds.Serial == "" {
		return Credentials{}, fmt.Errorf("%w: Serial", ErrMissingField)
	}
	if creds.LocalCredentials == "" {
		return Credentials{}, fmt.Errorf("%w: LocalCredentials", ErrMissingField)
	}

	return creds, nil
}
