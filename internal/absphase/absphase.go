// Package absphase anchors a timing model's relative phase to an absolute
// pulse count. It owns the reference epoch (TZRMJD), site (TZRSITE), and
// frequency (TZRFRQ); builds a synthetic arrival at that reference through
// the same normalization as real observations; and supplies the derivative of
// phase with respect to the reference epoch.
package absphase

import (
	"github.com/papapumpkin/pulsar/internal/diag"
	"github.com/papapumpkin/pulsar/internal/param"
	"github.com/papapumpkin/pulsar/internal/timing"
	"github.com/papapumpkin/pulsar/internal/toa"
)

// Category tags this component for the timing model.
const Category = "absolute_phase"

// componentName appears in errors and diagnostics.
const componentName = "AbsPhase"

// Parameter names.
const (
	ParamTZRMJD  = "TZRMJD"
	ParamTZRSITE = "TZRSITE"
	ParamTZRFRQ  = "TZRFRQ"
)

// Params holds the three reference parameters. It stores values only;
// Component.Setup validates and defaults them.
type Params struct {
	TZRMJD  *param.MJD
	TZRSITE *param.String
	TZRFRQ  *param.Frequency
}

// NewParams returns the reference parameters with no values.
func NewParams() *Params {
	return &Params{
		TZRMJD:  param.NewMJD(ParamTZRMJD, "Epoch of the zero phase.", false),
		TZRSITE: param.NewString(ParamTZRSITE, "Observatory of the zero phase measured."),
		TZRFRQ:  param.NewFrequency(ParamTZRFRQ, "The frequency of the zero phase measured.", "MHz"),
	}
}

// All returns the parameters in declaration order.
func (p *Params) All() []param.Param {
	return []param.Param{p.TZRMJD, p.TZRSITE, p.TZRFRQ}
}

// Component is the absolute-phase timing-model component. Setup mutates its
// parameters and must finish before TZRTOA or derivatives are used from
// other goroutines; afterwards the component is read-only.
type Component struct {
	params *Params
	norm   toa.Normalizer
	sink   diag.Sink
	derivs map[string]timing.DerivFunc
	setup  bool
}

// Option configures a Component.
type Option func(*Component)

// WithSink directs setup diagnostics to s.
func WithSink(s diag.Sink) Option {
	return func(c *Component) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithParams uses p instead of a fresh parameter set.
func WithParams(p *Params) Option {
	return func(c *Component) {
		if p != nil {
			c.params = p
		}
	}
}

// New returns a component that normalizes its reference event with norm.
func New(norm toa.Normalizer, opts ...Option) *Component {
	c := &Component{
		params: NewParams(),
		norm:   norm,
		sink:   diag.Discard,
		derivs: make(map[string]timing.DerivFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Category implements timing.Component.
func (c *Component) Category() string { return Category }

// Params returns the component's parameters for loading and inspection.
func (c *Component) Params() *Params { return c.params }

// Derivs implements timing.Component. The returned map is a copy.
func (c *Component) Derivs() map[string]timing.DerivFunc {
	out := make(map[string]timing.DerivFunc, len(c.derivs))
	for k, v := range c.derivs {
		out[k] = v
	}
	return out
}

var _ timing.Component = (*Component)(nil)
