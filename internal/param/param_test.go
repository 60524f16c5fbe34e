package param

import (
	"errors"
	"math"
	"testing"

	"github.com/papapumpkin/pulsar/internal/mjd"
)

func TestMJD_PresenceAndScale(t *testing.T) {
	t.Parallel()

	p := NewMJD("TZRMJD", "Epoch of the zero phase.", false)
	if p.Present() {
		t.Fatal("new parameter should be absent")
	}
	if p.Frozen() {
		t.Error("TZRMJD should be free for fitting")
	}

	if err := p.SetString("58000.25", mjd.UTC); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	v, ok := p.Value()
	if !ok {
		t.Fatal("Value() reported absent after SetString")
	}
	if v.MJD() != 58000.25 {
		t.Errorf("MJD = %v, want 58000.25", v.MJD())
	}

	p.SetScale(mjd.TDB)
	after, _ := p.Value()
	if p.Scale() != mjd.TDB {
		t.Errorf("Scale = %v, want tdb", p.Scale())
	}
	if after.JD1 != v.JD1 || after.JD2 != v.JD2 {
		t.Error("SetScale must not change the numeric epoch")
	}

	p.Clear()
	if p.Present() {
		t.Error("Clear should make the parameter absent")
	}
}

func TestMJD_SetStringError(t *testing.T) {
	t.Parallel()

	p := NewMJD("TZRMJD", "", false)
	err := p.SetString("not-a-date", mjd.UTC)
	if !errors.Is(err, mjd.ErrInvalidMJD) {
		t.Fatalf("error = %v, want ErrInvalidMJD", err)
	}
	if p.Present() {
		t.Error("failed SetString should leave the parameter absent")
	}
}

func TestString_Presence(t *testing.T) {
	t.Parallel()

	p := NewString("TZRSITE", "Observatory of the zero phase.")
	if _, ok := p.Value(); ok {
		t.Fatal("new parameter should be absent")
	}
	p.Set("")
	if v, ok := p.Value(); !ok || v != "" {
		t.Errorf("Value() = %q, %v; want empty string present", v, ok)
	}
	p.Clear()
	if p.Present() {
		t.Error("Clear should make the parameter absent")
	}
}

func TestFreq(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		f        Freq
		wantMHz  float64
		wantFree bool
		wantZero bool
	}{
		{"zero value", Freq{}, 0, false, true},
		{"finite", MHz(1400), 1400, false, false},
		{"explicit zero", MHz(0), 0, false, true},
		{"dispersion free", DispersionFree(), math.Inf(1), true, false},
		{"infinity folds", MHz(math.Inf(1)), math.Inf(1), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.f.MHz(); got != tt.wantMHz {
				t.Errorf("MHz() = %v, want %v", got, tt.wantMHz)
			}
			if got := tt.f.IsDispersionFree(); got != tt.wantFree {
				t.Errorf("IsDispersionFree() = %v, want %v", got, tt.wantFree)
			}
			if got := tt.f.IsZero(); got != tt.wantZero {
				t.Errorf("IsZero() = %v, want %v", got, tt.wantZero)
			}
		})
	}
}

func TestFrequency_Units(t *testing.T) {
	t.Parallel()

	p := NewFrequency("TZRFRQ", "Frequency of the zero phase.", "MHz")
	if p.Units() != "MHz" {
		t.Errorf("Units() = %q, want MHz", p.Units())
	}
	p.Set(MHz(430))
	v, ok := p.Value()
	if !ok || v.MHz() != 430 {
		t.Errorf("Value() = %v, %v; want 430 MHz present", v, ok)
	}
	if v.String() != "430 MHz" {
		t.Errorf("String() = %q, want %q", v.String(), "430 MHz")
	}
}

func TestParamInterface(t *testing.T) {
	t.Parallel()

	params := []Param{
		NewMJD("A", "a", false),
		NewString("B", "b"),
		NewFrequency("C", "c", "MHz"),
	}
	for _, p := range params {
		if p.Name() == "" || p.Description() == "" {
			t.Errorf("parameter %T missing name or description", p)
		}
	}
}
