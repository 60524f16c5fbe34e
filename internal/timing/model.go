// Package timing composes phase components into a timing model. Each
// component is included at most once per category, set up once, and
// contributes derivative functions keyed by parameter name.
package timing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/papapumpkin/pulsar/internal/toa"
)

// Sentinel errors for model composition.
var (
	// ErrDuplicateCategory indicates a second component of an included category.
	ErrDuplicateCategory = errors.New("component category already included")
	// ErrDuplicateDeriv indicates two components register the same parameter.
	ErrDuplicateDeriv = errors.New("derivative already registered")
	// ErrNoDeriv indicates no derivative is registered for a parameter.
	ErrNoDeriv = errors.New("no derivative registered")
	// ErrNotSetup indicates the model was used before Setup succeeded.
	ErrNotSetup = errors.New("model not set up")
	// ErrAlreadySetup indicates Setup was called twice.
	ErrAlreadySetup = errors.New("model already set up")
)

// DerivFunc returns d(phase)/d(param) for every event in batch. delay holds
// the already-computed per-event delays; analytic derivatives may ignore it.
type DerivFunc func(batch *toa.TOAs, param string, delay []float64) ([]float64, error)

// Component is a piece of a timing model.
type Component interface {
	// Category identifies the component kind; a model holds one per category.
	Category() string
	// Setup validates parameters and registers derivatives. It runs once.
	Setup() error
	// Derivs returns the derivative table registered by Setup.
	Derivs() map[string]DerivFunc
}

// Model is an ordered set of components. Setup must complete before
// derivatives are evaluated; after that the model is read-only.
type Model struct {
	components []Component
	byCategory map[string]Component
	derivs     map[string]DerivFunc
	setup      bool
}

// NewModel returns a model holding comps, rejecting duplicate categories.
func NewModel(comps ...Component) (*Model, error) {
	m := &Model{byCategory: make(map[string]Component)}
	for _, c := range comps {
		if err := m.Add(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add includes c. It fails if a component of the same category is present
// or the model is already set up.
func (m *Model) Add(c Component) error {
	if m.setup {
		return ErrAlreadySetup
	}
	cat := c.Category()
	if _, ok := m.byCategory[cat]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCategory, cat)
	}
	m.byCategory[cat] = c
	m.components = append(m.components, c)
	return nil
}

// Component returns the component of the given category.
func (m *Model) Component(category string) (Component, bool) {
	c, ok := m.byCategory[category]
	return c, ok
}

// Setup runs every component's Setup in insertion order and merges their
// derivative tables. The first failure aborts and leaves the model unusable.
func (m *Model) Setup() error {
	if m.setup {
		return ErrAlreadySetup
	}
	derivs := make(map[string]DerivFunc)
	for _, c := range m.components {
		if err := c.Setup(); err != nil {
			return fmt.Errorf("setup %s: %w", c.Category(), err)
		}
		for name, fn := range c.Derivs() {
			if _, ok := derivs[name]; ok {
				return fmt.Errorf("%w: %s (from %s)", ErrDuplicateDeriv, name, c.Category())
			}
			derivs[name] = fn
		}
	}
	m.derivs = derivs
	m.setup = true
	return nil
}

// DerivParams returns the names of parameters with a registered derivative,
// sorted.
func (m *Model) DerivParams() []string {
	names := make([]string, 0, len(m.derivs))
	for n := range m.derivs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DPhaseDParam evaluates the registered derivative of total phase with
// respect to param.
func (m *Model) DPhaseDParam(batch *toa.TOAs, param string, delay []float64) ([]float64, error) {
	if !m.setup {
		return nil, ErrNotSetup
	}
	fn, ok := m.derivs[param]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDeriv, param)
	}
	return fn(batch, param, delay)
}

// DesignMatrix evaluates every registered derivative and returns one column
// per parameter, keyed by parameter name. Derivatives are evaluated in
// DerivParams order; the first failure aborts.
func (m *Model) DesignMatrix(batch *toa.TOAs, delay []float64) (map[string][]float64, error) {
	if !m.setup {
		return nil, ErrNotSetup
	}
	cols := make(map[string][]float64, len(m.derivs))
	for _, name := range m.DerivParams() {
		col, err := m.derivs[name](batch, name, delay)
		if err != nil {
			return nil, fmt.Errorf("derivative %s: %w", name, err)
		}
		if len(col) != batch.Len() {
			return nil, fmt.Errorf("derivative %s: got %d values for %d events", name, len(col), batch.Len())
		}
		cols[name] = col
	}
	return cols, nil
}
