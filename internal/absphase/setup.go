package absphase

import (
	"github.com/papapumpkin/pulsar/internal/diag"
	"github.com/papapumpkin/pulsar/internal/mjd"
	"github.com/papapumpkin/pulsar/internal/observatory"
	"github.com/papapumpkin/pulsar/internal/param"
	"github.com/papapumpkin/pulsar/internal/telemetry"
)

// Setup validates and defaults the reference parameters, then registers the
// TZRMJD derivative. It runs once per component.
//
// A missing TZRMJD is a *ConfigError. A missing TZRSITE becomes the
// barycenter and retags TZRMJD as TDB in the same step. A missing or zero
// TZRFRQ becomes dispersion-free.
func (c *Component) Setup() error {
	if c.setup {
		return ErrAlreadySetup
	}
	p := c.params

	if !p.TZRMJD.Present() {
		return &ConfigError{
			Component: componentName,
			Param:     ParamTZRMJD,
			Msg:       "TZRMJD is required to compute the absolute phase",
			Err:       ErrMissingParameter,
		}
	}

	if !p.TZRSITE.Present() {
		p.TZRSITE.Set(observatory.Barycenter)
		p.TZRMJD.SetScale(mjd.TDB)
		c.note(ParamTZRSITE, "TZRSITE is set at the solar system barycenter")
	}

	if f, ok := p.TZRFRQ.Value(); !ok || f.IsZero() {
		p.TZRFRQ.Set(param.DispersionFree())
		c.note(ParamTZRFRQ, "TZRFRQ was 0.0 or unset; using infinite frequency")
	}

	c.derivs[ParamTZRMJD] = c.DPhaseDTZRMJD
	c.setup = true

	c.sink.Diagnose(diag.Diagnostic{
		Level:     diag.LevelDebug,
		Code:      telemetry.KindSetupDone,
		Component: componentName,
		Message:   "absolute phase reference ready",
	})
	return nil
}

func (c *Component) note(name, msg string) {
	c.sink.Diagnose(diag.Diagnostic{
		Level:     diag.LevelInfo,
		Code:      telemetry.KindParamDefaulted,
		Component: componentName,
		Param:     name,
		Message:   msg,
	})
}
