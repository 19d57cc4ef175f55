package product

import "testing"

func TestLookup_KnownVacuums(t *testing.T) {
	tests := []struct {
		code  string
		model string
	}{
		{Code360Eye, "Dyson 360 Eye Robot Vacuum"},
		{Code360Heurist, "Dyson 360 Heurist Robot Vacuum"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			info := Lookup(tt.code)
			if !info.HasVacuum {
				t.Error("HasVacuum = false, want true")
			}
			if info.Model != tt.model {
				t.Errorf("Model = %q, want %q", info.Model, tt.model)
			}
			if info.HardwareRevision != "" {
				t.Errorf("HardwareRevision = %q, want empty", info.HardwareRevision)
			}
			if !Known(tt.code) {
				t.Errorf("Known(%q) = false, want true", tt.code)
			}
		})
	}
}

func TestLookup_UnknownCodes(t *testing.T) {
	for _, code := range []string{"999", "", "n223", "438", "N223 "} {
		t.Run(code, func(t *testing.T) {
			info := Lookup(code)
			if info.HasVacuum || info.HasHeating || info.HasHumidifier ||
				info.HasJetFocus || info.HasAdvancedAirQualitySensors {
				t.Errorf("Lookup(%q) = %+v, want all capability flags false", code, info)
			}
			if info.Model != UnknownModel {
				t.Errorf("Model = %q, want %q", info.Model, UnknownModel)
			}
			if Known(code) {
				t.Errorf("Known(%q) = true, want false", code)
			}
		})
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	info := Lookup(Code360Heurist)
	info.Model = "changed"
	info.PowerModes[0] = "changed"

	again := Lookup(Code360Heurist)
	if again.Model != "Dyson 360 Heurist Robot Vacuum" {
		t.Errorf("Model = %q after caller mutation", again.Model)
	}
	if again.PowerModes[0] != PowerModeQuiet {
		t.Errorf("PowerModes[0] = %q after caller mutation", again.PowerModes[0])
	}
}

func TestInfo_SupportsPowerMode(t *testing.T) {
	tests := []struct {
		code string
		mode string
		want bool
	}{
		{Code360Eye, PowerModeHalf, true},
		{Code360Eye, PowerModeQuiet, false},
		{Code360Heurist, PowerModeMax, true},
		{Code360Heurist, PowerModeFull, false},
		{"999", PowerModeMax, false},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.mode, func(t *testing.T) {
			if got := Lookup(tt.code).SupportsPowerMode(tt.mode); got != tt.want {
				t.Errorf("SupportsPowerMode(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}
