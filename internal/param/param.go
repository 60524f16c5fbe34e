// Package param provides the typed timing-model parameters: epochs, strings,
// and frequencies. Each parameter tracks whether a value was explicitly
// supplied, so callers can tell an unset parameter from one set to its zero
// value.
package param

import (
	"fmt"
	"math"

	"github.com/papapumpkin/pulsar/internal/mjd"
)

// Param is the behavior common to every parameter kind.
type Param interface {
	Name() string
	Description() string
	Present() bool
	Frozen() bool
}

// meta holds the bookkeeping shared by all parameter kinds.
type meta struct {
	name        string
	description string
	frozen      bool
	present     bool
}

// Name returns the parameter name as it appears in par files.
func (m *meta) Name() string { return m.name }

// Description returns the human-readable description.
func (m *meta) Description() string { return m.description }

// Present reports whether a value has been supplied.
func (m *meta) Present() bool { return m.present }

// Frozen reports whether fitting must leave the parameter alone.
func (m *meta) Frozen() bool { return m.frozen }

// SetFrozen marks the parameter as frozen or free.
func (m *meta) SetFrozen(frozen bool) { m.frozen = frozen }

// MJD is an epoch parameter holding a split Julian date.
type MJD struct {
	meta
	value mjd.Time
}

// NewMJD returns an epoch parameter with no value.
func NewMJD(name, description string, frozen bool) *MJD {
	return &MJD{meta: meta{name: name, description: description, frozen: frozen}}
}

// Value returns the epoch and whether one is present.
func (p *MJD) Value() (mjd.Time, bool) {
	return p.value, p.present
}

// Set stores the epoch.
func (p *MJD) Set(t mjd.Time) {
	p.value = t
	p.present = true
}

// SetString parses a decimal MJD string in the given scale and stores it.
func (p *MJD) SetString(s string, scale mjd.Scale) error {
	t, err := mjd.Parse(s, scale)
	if err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	p.Set(t)
	return nil
}

// Scale returns the time scale tag of the stored epoch.
func (p *MJD) Scale() mjd.Scale { return p.value.Scale }

// SetScale retags the stored epoch without converting it.
func (p *MJD) SetScale(scale mjd.Scale) {
	p.value = p.value.WithScale(scale)
}

// Clear removes the value.
func (p *MJD) Clear() {
	p.value = mjd.Time{}
	p.present = false
}

// String is a parameter holding free text, such as an observatory code.
type String struct {
	meta
	value string
}

// NewString returns a string parameter with no value.
func NewString(name, description string) *String {
	return &String{meta: meta{name: name, description: description, frozen: true}}
}

// Value returns the string and whether one is present.
func (p *String) Value() (string, bool) {
	return p.value, p.present
}

// Set stores the string.
func (p *String) Set(v string) {
	p.value = v
	p.present = true
}

// Clear removes the value.
func (p *String) Clear() {
	p.value = ""
	p.present = false
}

// Freq is an observing frequency. The zero Freq is 0 MHz; DispersionFree
// returns the variant that means "infinitely high frequency, no dispersion
// delay". Only MHz translates that variant into a number.
type Freq struct {
	mhz      float64
	infinite bool
}

// MHz returns a finite frequency in megahertz. Positive infinity is folded
// into the dispersion-free variant.
func MHz(v float64) Freq {
	if math.IsInf(v, 1) {
		return DispersionFree()
	}
	return Freq{mhz: v}
}

// DispersionFree returns the infinite-frequency variant.
func DispersionFree() Freq {
	return Freq{infinite: true}
}

// IsDispersionFree reports whether f is the infinite-frequency variant.
func (f Freq) IsDispersionFree() bool { return f.infinite }

// IsZero reports whether f is exactly 0 MHz.
func (f Freq) IsZero() bool { return !f.infinite && f.mhz == 0 }

// MHz returns the frequency in megahertz, +Inf for the dispersion-free
// variant.
func (f Freq) MHz() float64 {
	if f.infinite {
		return math.Inf(1)
	}
	return f.mhz
}

// String formats the frequency with its unit.
func (f Freq) String() string {
	if f.infinite {
		return "inf MHz"
	}
	return fmt.Sprintf("%g MHz", f.mhz)
}

// Frequency is a frequency parameter with a declared unit.
type Frequency struct {
	meta
	units string
	value Freq
}

// NewFrequency returns a frequency parameter with no value.
func NewFrequency(name, description, units string) *Frequency {
	return &Frequency{meta: meta{name: name, description: description, frozen: true}, units: units}
}

// Units returns the declared unit.
func (p *Frequency) Units() string { return p.units }

// Value returns the frequency and whether one is present.
func (p *Frequency) Value() (Freq, bool) {
	return p.value, p.present
}

// Set stores the frequency.
func (p *Frequency) Set(f Freq) {
	p.value = f
	p.present = true
}

// Clear removes the value.
func (p *Frequency) Clear() {
	p.value = Freq{}
	p.present = false
}
