package toa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/pulsar/internal/clock"
	"github.com/papapumpkin/pulsar/internal/mjd"
	"github.com/papapumpkin/pulsar/internal/observatory"
)

// ErrUnknownEphemeris indicates the batch names an unsupported solar-system
// ephemeris.
var ErrUnknownEphemeris = errors.New("unknown solar-system ephemeris")

// DefaultEphem is used when a batch names no ephemeris.
const DefaultEphem = "DE421"

var ephemerides = map[string]bool{
	"DE200": true, "DE405": true, "DE414": true, "DE421": true,
	"DE430": true, "DE430T": true, "DE436": true, "DE438": true,
	"DE440": true, "DE440S": true,
}

// ValidateEphem checks that name is a supported JPL development ephemeris.
func ValidateEphem(name string) error {
	if !ephemerides[strings.ToUpper(strings.TrimSpace(name))] {
		return fmt.Errorf("%w: %q", ErrUnknownEphemeris, name)
	}
	return nil
}

// Pipeline is the standard Normalizer.
type Pipeline struct {
	sites  *observatory.Registry
	clocks clock.Source
}

// NewPipeline returns a pipeline resolving sites in sites and reading clock
// offsets from clocks. A nil clocks disables every clock correction.
func NewPipeline(sites *observatory.Registry, clocks clock.Source) *Pipeline {
	if sites == nil {
		sites = observatory.Default()
	}
	return &Pipeline{sites: sites, clocks: clocks}
}

// Normalize implements Normalizer. Every event is resolved, corrected, and
// converted to TT and TDB; the first failure aborts the batch. An empty
// cfg.Ephem is replaced by DefaultEphem in the returned Config.
func (p *Pipeline) Normalize(ctx context.Context, raw []TOA, cfg Config) (*TOAs, error) {
	if strings.TrimSpace(cfg.Ephem) == "" {
		cfg.Ephem = DefaultEphem
	}
	if err := ValidateEphem(cfg.Ephem); err != nil {
		return nil, err
	}
	out := &TOAs{TOAs: make([]TOA, 0, len(raw)), Config: cfg}
	for i, t := range raw {
		n, err := p.normalize(ctx, t, cfg)
		if err != nil {
			return nil, fmt.Errorf("toa %d: %w", i, err)
		}
		out.TOAs = append(out.TOAs, n)
	}
	return out, nil
}

func (p *Pipeline) normalize(ctx context.Context, t TOA, cfg Config) (TOA, error) {
	site, err := p.sites.Lookup(t.Site)
	if err != nil {
		return TOA{}, err
	}
	t.Obs = site
	if t.Scale == mjd.ScaleUnset {
		t.Scale = site.DefaultScale()
	}
	if len(t.Flags) > 0 {
		flags := make(map[string]string, len(t.Flags))
		for k, v := range t.Flags {
			flags[k] = v
		}
		t.Flags = flags
	}

	at := t.Epoch()
	if !site.Barycentric {
		corr, err := p.siteCorrection(ctx, site, at.MJD(), cfg.ClockCorr)
		if err != nil {
			return TOA{}, err
		}
		t.ClockCorrSec = corr
		at = at.AddSeconds(corr)
	}
	t.Time = at

	tt, err := at.To(mjd.TT)
	if err != nil {
		return TOA{}, fmt.Errorf("convert to tt: %w", err)
	}
	if cfg.ClockCorr.IncludeBIPM && !site.Barycentric && p.clocks != nil {
		dt, err := p.clocks.Offset(ctx, clock.KeyBIPM, tt.MJD())
		if err != nil {
			return TOA{}, fmt.Errorf("bipm correction: %w", err)
		}
		tt = tt.AddSeconds(dt)
	}
	t.TT = tt

	tdb, err := tt.To(mjd.TDB)
	if err != nil {
		return TOA{}, fmt.Errorf("convert to tdb: %w", err)
	}
	t.TDB = tdb
	return t, nil
}

// siteCorrection sums the observatory clock offset and, when requested, the
// GPS correction. Both are zero when the pipeline has no clock source.
func (p *Pipeline) siteCorrection(ctx context.Context, site *observatory.Site, at float64, info ClockCorrInfo) (float64, error) {
	if p.clocks == nil {
		return 0, nil
	}
	var total float64
	if site.ClockKey != "" {
		dt, err := p.clocks.Offset(ctx, site.ClockKey, at)
		if err != nil {
			return 0, fmt.Errorf("%s clock correction: %w", site.Name, err)
		}
		total += dt
	}
	if info.IncludeGPS {
		dt, err := p.clocks.Offset(ctx, clock.KeyGPS, at)
		if err != nil {
			return 0, fmt.Errorf("gps correction: %w", err)
		}
		total += dt
	}
	return total, nil
}
