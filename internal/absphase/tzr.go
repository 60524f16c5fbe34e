package absphase

import (
	"context"
	"fmt"

	"github.com/papapumpkin/pulsar/internal/diag"
	"github.com/papapumpkin/pulsar/internal/telemetry"
	"github.com/papapumpkin/pulsar/internal/toa"
)

// TZRTOA builds the reference arrival and normalizes it with the clock and
// ephemeris configuration of batch. Only batch.Config is read. The result is
// a fresh one-event batch on every call.
//
// The event carries TZRMJD as an MJD pair without a scale, so the site's
// default scale applies: UTC at an observatory, TDB at the barycenter.
func (c *Component) TZRTOA(ctx context.Context, batch *toa.TOAs) (*toa.TOAs, error) {
	if !c.setup {
		return nil, ErrNotSetup
	}
	epoch, _ := c.params.TZRMJD.Value()
	site, _ := c.params.TZRSITE.Value()
	freq, _ := c.params.TZRFRQ.Value()

	day, frac := epoch.MJDPair()
	raw := toa.TOA{
		MJD:     [2]float64{day, frac},
		Site:    site,
		FreqMHz: freq.MHz(),
	}

	var cfg toa.Config
	if batch != nil {
		cfg = batch.Config
	}

	tz, err := c.norm.Normalize(ctx, []toa.TOA{raw}, cfg)
	if err != nil {
		return nil, fmt.Errorf("absphase: normalize reference toa: %w", err)
	}
	if tz.Len() != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrEventCount, tz.Len())
	}

	c.sink.Diagnose(diag.Diagnostic{
		Level:     diag.LevelDebug,
		Code:      telemetry.KindTZRBuilt,
		Component: componentName,
		Message:   fmt.Sprintf("reference toa at %s site %s", tz.TOAs[0].TDB, site),
	})
	return tz, nil
}

// DPhaseDTZRMJD is the derivative of total phase with respect to TZRMJD: one
// cycle per cycle for every event, independent of the event times and of
// delay.
func (c *Component) DPhaseDTZRMJD(batch *toa.TOAs, name string, _ []float64) ([]float64, error) {
	if name != ParamTZRMJD {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	out := make([]float64, batch.Len())
	for i := range out {
		out[i] = 1
	}
	return out, nil
}
