package mjd

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Scale identifies the time scale an epoch is expressed in.
type Scale int

// Supported time scales, ordered so that conversions step through
// UTC -> TAI -> TT -> TDB.
const (
	ScaleUnset Scale = iota // no scale; the consumer picks a default
	UTC                     // coordinated universal time
	TAI                     // international atomic time
	TT                      // terrestrial time
	TDB                     // barycentric dynamical time
)

const (
	// TTMinusTAI is the fixed offset TT - TAI in seconds.
	TTMinusTAI = 32.184
	// jdJ2000 is the Julian date of the J2000.0 epoch.
	jdJ2000 = 2451545.0
)

var (
	// ErrUnknownScale indicates a time-scale name was not recognized.
	ErrUnknownScale = errors.New("unknown time scale")
	// ErrNoScale indicates a conversion was requested on an untagged epoch.
	ErrNoScale = errors.New("epoch has no time scale")
	// ErrOutOfRange indicates the epoch precedes the leap-second table.
	ErrOutOfRange = errors.New("epoch outside leap-second table")
)

var scaleNames = map[Scale]string{
	ScaleUnset: "unset",
	UTC:        "utc",
	TAI:        "tai",
	TT:         "tt",
	TDB:        "tdb",
}

// String returns the lowercase scale name.
func (s Scale) String() string {
	if name, ok := scaleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// ParseScale maps a case-insensitive name to a Scale. The empty string maps
// to ScaleUnset.
func ParseScale(name string) (Scale, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ScaleUnset, nil
	}
	for s, sn := range scaleNames {
		if s != ScaleUnset && sn == n {
			return s, nil
		}
	}
	return ScaleUnset, fmt.Errorf("%w: %q", ErrUnknownScale, name)
}

// leapSecond records TAI-UTC in effect from MJD onward.
type leapSecond struct {
	mjd         float64
	taiMinusUTC float64
}

// leapSeconds is sorted newest first.
var leapSeconds = []leapSecond{
	{57754, 37}, // 2017-01-01
	{57204, 36}, // 2015-07-01
	{56109, 35}, // 2012-07-01
	{54832, 34}, // 2009-01-01
	{53736, 33}, // 2006-01-01
	{51179, 32}, // 1999-01-01
	{50630, 31}, // 1997-07-01
	{50083, 30}, // 1996-01-01
	{49534, 29}, // 1994-07-01
	{49169, 28}, // 1993-07-01
	{48804, 27}, // 1992-07-01
	{48257, 26}, // 1991-01-01
	{47892, 25}, // 1990-01-01
	{47161, 24}, // 1988-01-01
	{46247, 23}, // 1985-07-01
	{45516, 22}, // 1983-07-01
	{45151, 21}, // 1982-07-01
	{44786, 20}, // 1981-07-01
	{44239, 19}, // 1980-01-01
	{43874, 18}, // 1979-01-01
	{43509, 17}, // 1978-01-01
	{43144, 16}, // 1977-01-01
	{42778, 15}, // 1976-01-01
	{42413, 14}, // 1975-01-01
	{42048, 13}, // 1974-01-01
	{41683, 12}, // 1973-01-01
	{41499, 11}, // 1972-07-01
	{41317, 10}, // 1972-01-01
}

// TAIMinusUTC returns TAI-UTC in seconds at the given UTC MJD.
func TAIMinusUTC(mjd float64) (float64, error) {
	for _, ls := range leapSeconds {
		if mjd >= ls.mjd {
			return ls.taiMinusUTC, nil
		}
	}
	return 0, fmt.Errorf("%w: MJD %.1f", ErrOutOfRange, mjd)
}

// TDBMinusTT returns TDB-TT in seconds using the leading periodic terms of the
// Fairhead-Bretagnon series. The approximation is good to a few microseconds.
func TDBMinusTT(t Time) float64 {
	days := (t.JD1 - jdJ2000) + t.JD2
	g := (357.53 + 0.98560028*days) * math.Pi / 180
	return 0.001657*math.Sin(g) + 0.000014*math.Sin(2*g)
}

// To converts t to scale. Conversions walk the UTC/TAI/TT/TDB chain one step
// at a time.
func (t Time) To(scale Scale) (Time, error) {
	if t.Scale == ScaleUnset {
		return Time{}, ErrNoScale
	}
	if _, ok := scaleNames[scale]; !ok || scale == ScaleUnset {
		return Time{}, fmt.Errorf("%w: %v", ErrUnknownScale, scale)
	}
	cur := t
	for cur.Scale != scale {
		var err error
		if cur.Scale < scale {
			cur, err = cur.stepUp()
		} else {
			cur, err = cur.stepDown()
		}
		if err != nil {
			return Time{}, err
		}
	}
	return cur, nil
}

func (t Time) stepUp() (Time, error) {
	switch t.Scale {
	case UTC:
		dt, err := TAIMinusUTC(t.MJD())
		if err != nil {
			return Time{}, err
		}
		return t.AddSeconds(dt).WithScale(TAI), nil
	case TAI:
		return t.AddSeconds(TTMinusTAI).WithScale(TT), nil
	case TT:
		return t.AddSeconds(TDBMinusTT(t)).WithScale(TDB), nil
	}
	return Time{}, fmt.Errorf("%w: cannot convert up from %v", ErrUnknownScale, t.Scale)
}

func (t Time) stepDown() (Time, error) {
	switch t.Scale {
	case TDB:
		return t.AddSeconds(-TDBMinusTT(t)).WithScale(TT), nil
	case TT:
		return t.AddSeconds(-TTMinusTAI).WithScale(TAI), nil
	case TAI:
		// Look up with the newest offset first, then confirm on the UTC side.
		guess := t.AddSeconds(-leapSeconds[0].taiMinusUTC)
		dt, err := TAIMinusUTC(guess.MJD())
		if err != nil {
			return Time{}, err
		}
		return t.AddSeconds(-dt).WithScale(UTC), nil
	}
	return Time{}, fmt.Errorf("%w: cannot convert down from %v", ErrUnknownScale, t.Scale)
}
