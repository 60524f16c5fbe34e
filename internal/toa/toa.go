// Package toa models pulse times of arrival and the pipeline that normalizes
// them: site resolution, clock corrections, and time-scale conversion up to
// barycentric dynamical time. Real observation batches and synthetic events
// share the same types so downstream phase code never branches on origin.
package toa

import (
	"context"
	"math"

	"github.com/papapumpkin/pulsar/internal/mjd"
	"github.com/papapumpkin/pulsar/internal/observatory"
)

// TOA is a single time of arrival. The raw fields are set by whoever creates
// the event; the normalized fields are filled in by a Normalizer.
type TOA struct {
	// MJD is the arrival time as a (day, fraction) pair whose sum is the MJD.
	MJD [2]float64
	// Scale of MJD. ScaleUnset means the site's default scale applies.
	Scale   mjd.Scale
	Site    string
	FreqMHz float64
	Flags   map[string]string

	Obs          *observatory.Site
	Time         mjd.Time // MJD in Scale, after clock corrections
	ClockCorrSec float64
	TT           mjd.Time
	TDB          mjd.Time
}

// Epoch returns the raw arrival time as an mjd.Time.
func (t TOA) Epoch() mjd.Time {
	return mjd.FromMJD(t.MJD[0], t.MJD[1], t.Scale)
}

// DispersionFree reports whether the event is referenced to infinite
// frequency. Delay computations must skip dispersion for such events rather
// than evaluate 1/f² with an infinite f.
func (t TOA) DispersionFree() bool {
	return math.IsInf(t.FreqMHz, 1)
}

// ClockCorrInfo selects optional clock corrections.
type ClockCorrInfo struct {
	IncludeBIPM bool `json:"include_bipm"`
	IncludeGPS  bool `json:"include_gps"`
}

// Config is the normalization configuration carried by a batch.
type Config struct {
	ClockCorr ClockCorrInfo `json:"clock_corr_info"`
	Ephem     string        `json:"ephem"`
	Planets   bool          `json:"planets"`
}

// TOAs is a batch of arrival times together with the configuration it was
// normalized with.
type TOAs struct {
	TOAs   []TOA
	Config Config
}

// Len returns the number of events. A nil batch has length zero.
func (b *TOAs) Len() int {
	if b == nil {
		return 0
	}
	return len(b.TOAs)
}

// Normalizer turns raw events into a normalized batch using cfg.
type Normalizer interface {
	Normalize(ctx context.Context, raw []TOA, cfg Config) (*TOAs, error)
}
