package accessory

import (
	"errors"
	"testing"
)

func TestUUIDFor(t *testing.T) {
	a := UUIDFor("JH1-EU-ABC1234A")
	b := UUIDFor("JH1-EU-ABC1234A")
	c := UUIDFor("JH1-EU-XYZ9876B")

	if a != b {
		t.Errorf("UUIDFor() not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("UUIDFor() collided for different serials: %q", a)
	}
	if len(a) != 36 {
		t.Errorf("UUIDFor() = %q, want canonical UUID form", a)
	}
}

func TestNew(t *testing.T) {
	acc := New("Hallway", "S1")

	if acc.UUID != UUIDFor("S1") {
		t.Errorf("UUID = %q, want %q", acc.UUID, UUIDFor("S1"))
	}
	if acc.Context.SerialNumber != "S1" || acc.Context.Kind != KindVacuum {
		t.Errorf("Context = %+v, want serial S1 kind %s", acc.Context, KindVacuum)
	}
	if got := acc.Info().Manufacturer; got != Manufacturer {
		t.Errorf("Manufacturer = %q, want %q", got, Manufacturer)
	}
	if acc.Power() != nil {
		t.Error("Power() != nil before EnsurePowerService")
	}
	if err := acc.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Accessory{DisplayName: "x"}).Validate(); !errors.Is(err, ErrInvalidAccessory) {
		t.Errorf("Validate() without uuid error = %v, want ErrInvalidAccessory", err)
	}
	if err := (&Accessory{UUID: "x"}).Validate(); !errors.Is(err, ErrInvalidAccessory) {
		t.Errorf("Validate() without name error = %v, want ErrInvalidAccessory", err)
	}
}

func TestEnsurePowerService(t *testing.T) {
	acc := New("Hallway", "S1")

	first := acc.EnsurePowerService("Hallway Power")
	first.On.Update(true)
	second := acc.EnsurePowerService("Landing Power")

	if first != second {
		t.Error("EnsurePowerService() created a second service")
	}
	if second.Name != "Landing Power" {
		t.Errorf("Name = %q, want %q", second.Name, "Landing Power")
	}
	if !second.On.Value() {
		t.Error("On.Value() = false, want value kept across calls")
	}
}

func TestCharacteristic_Set(t *testing.T) {
	tests := []struct {
		name       string
		handlerErr error
		wantValue  bool
	}{
		{"handler accepts", nil, true},
		{"handler rejects", errors.New("not connected"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []bool
			c := &Characteristic{}
			c.OnSet(func(v bool) error {
				got = append(got, v)
				return tt.handlerErr
			})

			err := c.Set(true)
			if !errors.Is(err, tt.handlerErr) {
				t.Errorf("Set() error = %v, want %v", err, tt.handlerErr)
			}
			if len(got) != 1 || !got[0] {
				t.Errorf("handler calls = %v, want [true]", got)
			}
			if c.Value() != tt.wantValue {
				t.Errorf("Value() = %v, want %v", c.Value(), tt.wantValue)
			}
		})
	}
}

func TestCharacteristic_ReadOnly(t *testing.T) {
	c := &Characteristic{}

	if err := c.Set(true); !errors.Is(err, ErrNoSetHandler) {
		t.Errorf("Set() error = %v, want ErrNoSetHandler", err)
	}

	c.Update(true)
	if !c.Value() {
		t.Error("Value() = false after Update(true)")
	}
}
