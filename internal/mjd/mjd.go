// Package mjd represents epochs as split two-part Julian dates.
//
// A single float64 holding a Julian date resolves only about 40 µs; pulse
// timing needs nanoseconds. Time therefore keeps an integral day number in
// JD1 and the remainder in JD2, and every arithmetic step uses error-free
// transformations so no precision leaks out of the fractional part.
package mjd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// JDMJDOffset is the Julian date of MJD 0.
	JDMJDOffset = 2400000.5
	// SecondsPerDay is the length of a day in SI seconds, ignoring leap seconds.
	SecondsPerDay = 86400.0
)

// ErrInvalidMJD indicates a string could not be parsed as a decimal MJD.
var ErrInvalidMJD = errors.New("invalid MJD")

// Time is an epoch stored as a two-part Julian date tagged with a time scale.
// JD1 is always integral and |JD2| <= 0.5.
type Time struct {
	JD1   float64
	JD2   float64
	Scale Scale
}

// New builds a Time from an arbitrary Julian date pair, normalizing it so
// JD1 is integral.
func New(jd1, jd2 float64, scale Scale) Time {
	day, frac := dayFrac(jd1, jd2)
	return Time{JD1: day, JD2: frac, Scale: scale}
}

// FromMJD builds a Time from a modified Julian date given as a day part and
// a fractional part. Either part may carry a fraction; the sum is what counts.
func FromMJD(day, frac float64, scale Scale) Time {
	s, e := twoSum(JDMJDOffset, day)
	d, f := dayFrac(s, e+frac)
	return Time{JD1: d, JD2: f, Scale: scale}
}

// Parse reads a decimal MJD such as "58000.000000123456789". The integer and
// fractional digits are converted separately so that the full string precision
// survives.
func Parse(s string, scale Scale) (Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Time{}, fmt.Errorf("%w: empty string", ErrInvalidMJD)
	}
	if strings.ContainsAny(raw, "eE") {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Time{}, fmt.Errorf("%w: %q", ErrInvalidMJD, s)
		}
		return FromMJD(v, 0, scale), nil
	}

	sign := 1.0
	switch raw[0] {
	case '-':
		sign = -1
		raw = raw[1:]
	case '+':
		raw = raw[1:]
	}

	intPart, fracPart, _ := strings.Cut(raw, ".")
	if (intPart == "" && fracPart == "") || strings.HasPrefix(intPart, "+") || strings.HasPrefix(intPart, "-") {
		return Time{}, fmt.Errorf("%w: %q", ErrInvalidMJD, s)
	}

	var day float64
	if intPart != "" {
		n, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return Time{}, fmt.Errorf("%w: %q", ErrInvalidMJD, s)
		}
		day = float64(n)
	}

	var frac float64
	if fracPart != "" {
		if strings.ContainsAny(fracPart, "+-") {
			return Time{}, fmt.Errorf("%w: %q", ErrInvalidMJD, s)
		}
		f, err := strconv.ParseFloat("0."+fracPart, 64)
		if err != nil {
			return Time{}, fmt.Errorf("%w: %q", ErrInvalidMJD, s)
		}
		frac = f
	}

	return FromMJD(sign*day, sign*frac, scale), nil
}

// MJDPair returns the epoch as a modified Julian date pair whose sum is the
// MJD. Subtracting the offset from the integral JD1 is exact.
func (t Time) MJDPair() (float64, float64) {
	return t.JD1 - JDMJDOffset, t.JD2
}

// MJD returns the epoch collapsed to a single float64. Use it for table
// lookups and display, never for timing arithmetic.
func (t Time) MJD() float64 {
	m1, m2 := t.MJDPair()
	return m1 + m2
}

// IsZero reports whether t is the zero Time.
func (t Time) IsZero() bool {
	return t.JD1 == 0 && t.JD2 == 0 && t.Scale == ScaleUnset
}

// WithScale returns t retagged with scale. The numeric value is unchanged;
// use To for a real conversion.
func (t Time) WithScale(scale Scale) Time {
	t.Scale = scale
	return t
}

// AddSeconds shifts the epoch by sec SI seconds.
func (t Time) AddSeconds(sec float64) Time {
	return New(t.JD1, t.JD2+sec/SecondsPerDay, t.Scale)
}

// Sub returns t-u in seconds. Scales are not reconciled.
func (t Time) Sub(u Time) float64 {
	return ((t.JD1 - u.JD1) + (t.JD2 - u.JD2)) * SecondsPerDay
}

// String formats the epoch as a decimal MJD with 15 fractional digits
// followed by its scale.
func (t Time) String() string {
	m1, m2 := t.MJDPair()
	day := math.Floor(m1)
	frac := (m1 - day) + m2
	for frac < 0 {
		day--
		frac++
	}
	for frac >= 1 {
		day++
		frac--
	}
	digits := strconv.FormatFloat(frac, 'f', 15, 64)
	if strings.HasPrefix(digits, "1") {
		day++
		digits = "0.000000000000000"
	}
	return fmt.Sprintf("%.0f%s %s", day, digits[1:], t.Scale)
}

// twoSum returns s = a+b and the exact rounding error e.
func twoSum(a, b float64) (float64, float64) {
	s := a + b
	bb := s - a
	e := (a - (s - bb)) + (b - bb)
	return s, e
}

// dayFrac splits a+b into an integral day and a fraction in [-0.5, 0.5].
func dayFrac(a, b float64) (float64, float64) {
	s, e := twoSum(a, b)
	day := math.Round(s)
	f1, e1 := twoSum(s, -day)
	frac := f1 + (e1 + e)
	if frac > 0.5 {
		day++
		frac--
	} else if frac < -0.5 {
		day--
		frac++
	}
	return day, frac
}
