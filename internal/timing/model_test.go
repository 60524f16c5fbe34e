package timing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/papapumpkin/pulsar/internal/toa"
)

// stubComponent is a minimal Component for composition tests.
type stubComponent struct {
	category string
	setupErr error
	derivs   map[string]DerivFunc
	calls    int
}

func (s *stubComponent) Category() string { return s.category }

func (s *stubComponent) Setup() error {
	s.calls++
	return s.setupErr
}

func (s *stubComponent) Derivs() map[string]DerivFunc { return s.derivs }

func constDeriv(v float64) DerivFunc {
	return func(batch *toa.TOAs, _ string, _ []float64) ([]float64, error) {
		out := make([]float64, batch.Len())
		for i := range out {
			out[i] = v
		}
		return out, nil
	}
}

func batchOf(n int) *toa.TOAs {
	return &toa.TOAs{TOAs: make([]toa.TOA, n)}
}

func TestNewModel_DuplicateCategory(t *testing.T) {
	t.Parallel()

	_, err := NewModel(&stubComponent{category: "spindown"}, &stubComponent{category: "spindown"})
	if !errors.Is(err, ErrDuplicateCategory) {
		t.Fatalf("error = %v, want ErrDuplicateCategory", err)
	}
}

func TestModel_SetupMergesDerivs(t *testing.T) {
	t.Parallel()

	a := &stubComponent{category: "absolute_phase", derivs: map[string]DerivFunc{"TZRMJD": constDeriv(1)}}
	b := &stubComponent{category: "spindown", derivs: map[string]DerivFunc{"F0": constDeriv(2)}}
	m, err := NewModel(a, b)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if err := m.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("setup calls = %d, %d; want 1, 1", a.calls, b.calls)
	}
	if got, want := m.DerivParams(), []string{"F0", "TZRMJD"}; !reflect.DeepEqual(got, want) {
		t.Errorf("DerivParams() = %v, want %v", got, want)
	}

	col, err := m.DPhaseDParam(batchOf(3), "F0", nil)
	if err != nil {
		t.Fatalf("DPhaseDParam: %v", err)
	}
	if !reflect.DeepEqual(col, []float64{2, 2, 2}) {
		t.Errorf("F0 column = %v", col)
	}

	if err := m.Setup(); !errors.Is(err, ErrAlreadySetup) {
		t.Errorf("second Setup error = %v, want ErrAlreadySetup", err)
	}
	if err := m.Add(&stubComponent{category: "late"}); !errors.Is(err, ErrAlreadySetup) {
		t.Errorf("Add after Setup error = %v, want ErrAlreadySetup", err)
	}
}

func TestModel_SetupFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	m, err := NewModel(&stubComponent{category: "absolute_phase", setupErr: boom})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if err := m.Setup(); !errors.Is(err, boom) {
		t.Fatalf("Setup error = %v, want boom", err)
	}
	if len(m.DerivParams()) != 0 {
		t.Errorf("failed setup registered %v", m.DerivParams())
	}
	if _, err := m.DPhaseDParam(batchOf(1), "TZRMJD", nil); !errors.Is(err, ErrNotSetup) {
		t.Errorf("DPhaseDParam error = %v, want ErrNotSetup", err)
	}
}

func TestModel_DuplicateDeriv(t *testing.T) {
	t.Parallel()

	m, err := NewModel(
		&stubComponent{category: "a", derivs: map[string]DerivFunc{"X": constDeriv(1)}},
		&stubComponent{category: "b", derivs: map[string]DerivFunc{"X": constDeriv(1)}},
	)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if err := m.Setup(); !errors.Is(err, ErrDuplicateDeriv) {
		t.Fatalf("Setup error = %v, want ErrDuplicateDeriv", err)
	}
}

func TestModel_NoDeriv(t *testing.T) {
	t.Parallel()

	m, err := NewModel(&stubComponent{category: "a"})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if err := m.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := m.DPhaseDParam(batchOf(1), "PEPOCH", nil); !errors.Is(err, ErrNoDeriv) {
		t.Fatalf("error = %v, want ErrNoDeriv", err)
	}
}

func TestModel_DesignMatrix(t *testing.T) {
	t.Parallel()

	short := func(*toa.TOAs, string, []float64) ([]float64, error) { return []float64{1}, nil }
	m, err := NewModel(&stubComponent{category: "a", derivs: map[string]DerivFunc{"A": constDeriv(1), "B": short}})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if err := m.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := m.DesignMatrix(batchOf(2), nil); err == nil {
		t.Fatal("expected length mismatch error")
	}

	cols, err := m.DesignMatrix(batchOf(1), nil)
	if err != nil {
		t.Fatalf("DesignMatrix: %v", err)
	}
	if len(cols) != 2 {
		t.Errorf("got %d columns, want 2", len(cols))
	}
	for _, name := range m.DerivParams() {
		if _, ok := cols[name]; !ok {
			t.Errorf("no column keyed %q", name)
		}
	}
}

func TestModel_Component(t *testing.T) {
	t.Parallel()

	c := &stubComponent{category: "absolute_phase"}
	m, err := NewModel(c)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	got, ok := m.Component("absolute_phase")
	if !ok || got != c {
		t.Errorf("Component() = %v, %v", got, ok)
	}
	if _, ok := m.Component("missing"); ok {
		t.Error("Component(missing) reported present")
	}
}
