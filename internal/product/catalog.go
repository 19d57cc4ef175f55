package product

// UnknownModel is the model name reported for codes not in the catalog.
const UnknownModel = "Unknown Dyson Vacuum"

// Known product-type codes.
const (
	Code360Eye     = "N223"
	Code360Heurist = "276"
)

// Info describes a Dyson product type.
//
// Info is a value type; Lookup hands out copies so the table cannot be
// modified through a returned record.
type Info struct {
	Model     string
	HasVacuum bool

	// Capability flags for the wider Dyson range. No vacuum in the table
	// sets them, but they are kept so the record shape matches the
	// device-side product metadata.
	HasHeating                   bool
	HasHumidifier                bool
	HasJetFocus                  bool
	HasAdvancedAirQualitySensors bool

	// HardwareRevision is empty unless the table says otherwise.
	HardwareRevision string

	// PowerModes lists the defaultVacuumPowerMode values the model accepts.
	PowerModes []string
}

// Vacuum power modes.
const (
	PowerModeHalf  = "halfPower"
	PowerModeFull  = "fullPower"
	PowerModeQuiet = "quiet"
	PowerModeHigh  = "high"
	PowerModeMax   = "max"
)

var catalog = map[string]Info{
	Code360Eye: {
		Model:      "Dyson 360 Eye Robot Vacuum",
		HasVacuum:  true,
		PowerModes: []string{PowerModeHalf, PowerModeFull},
	},
	Code360Heurist: {
		Model:      "Dyson 360 Heurist Robot Vacuum",
		HasVacuum:  true,
		PowerModes: []string{PowerModeQuiet, PowerModeHigh, PowerModeMax},
	},
}

// Lookup returns the catalog entry for code, or the unknown-product
// defaults when code is not listed. It never fails.
func Lookup(code string) Info {
	info, ok := catalog[code]
	if !ok {
		return Info{Model: UnknownModel}
	}
	info.PowerModes = append([]string(nil), info.PowerModes...)
	return info
}

// Known reports whether code has a catalog entry.
func Known(code string) bool {
	_, ok := catalog[code]
	return ok
}

// SupportsPowerMode reports whether mode is one of the model's listed
// power modes.
func (i Info) SupportsPowerMode(mode string) bool {
	for _, m := range i.PowerModes {
		if m == mode {
			return true
		}
	}
	return false
}
