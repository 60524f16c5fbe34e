// Package clock supplies clock-correction offsets: the difference between an
// observatory's recorded time and a standard scale, plus the GPS and BIPM
// realizations of UTC and TT. Offsets are tabulated per key and linearly
// interpolated.
package clock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Well-known table keys beyond per-observatory tables.
const (
	KeyGPS  = "gps"  // UTC(GPS) - UTC
	KeyBIPM = "bipm" // TT(BIPM) - TT(TAI)
)

// ErrNoClockData indicates no tabulated points bracket the requested MJD.
var ErrNoClockData = errors.New("clock: no correction data")

// Source looks up a clock offset in seconds for a table key at an MJD.
type Source interface {
	Offset(ctx context.Context, key string, mjd float64) (float64, error)
}

// Point is one tabulated clock offset.
type Point struct {
	MJD    float64
	Offset float64 // seconds
}

// Table is an in-memory Source. It is safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	points map[string][]Point
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{points: make(map[string][]Point)}
}

// Add merges points into the table for key, keeping them sorted by MJD.
// A point at an existing MJD replaces the old one.
func (t *Table) Add(key string, pts ...Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	byMJD := make(map[float64]float64, len(t.points[key])+len(pts))
	for _, p := range t.points[key] {
		byMJD[p.MJD] = p.Offset
	}
	for _, p := range pts {
		byMJD[p.MJD] = p.Offset
	}
	merged := make([]Point, 0, len(byMJD))
	for m, off := range byMJD {
		merged = append(merged, Point{MJD: m, Offset: off})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].MJD < merged[j].MJD })
	t.points[key] = merged
}

// Offset implements Source.
func (t *Table) Offset(_ context.Context, key string, mjd float64) (float64, error) {
	t.mu.RLock()
	pts := t.points[key]
	t.mu.RUnlock()

	i := sort.Search(len(pts), func(i int) bool { return pts[i].MJD >= mjd })
	if i == len(pts) {
		return 0, fmt.Errorf("%w: %s at MJD %.6f", ErrNoClockData, key, mjd)
	}
	if pts[i].MJD == mjd {
		return pts[i].Offset, nil
	}
	if i == 0 {
		return 0, fmt.Errorf("%w: %s at MJD %.6f", ErrNoClockData, key, mjd)
	}
	return interpolate(pts[i-1], pts[i], mjd), nil
}

// interpolate returns the linear interpolation between lo and hi at mjd.
func interpolate(lo, hi Point, mjd float64) float64 {
	if hi.MJD == lo.MJD {
		return lo.Offset
	}
	w := (mjd - lo.MJD) / (hi.MJD - lo.MJD)
	return lo.Offset + w*(hi.Offset-lo.Offset)
}
