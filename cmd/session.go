package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/papapumpkin/pulsar/internal/absphase"
	"github.com/papapumpkin/pulsar/internal/clock"
	"github.com/papapumpkin/pulsar/internal/config"
	"github.com/papapumpkin/pulsar/internal/diag"
	"github.com/papapumpkin/pulsar/internal/observatory"
	"github.com/papapumpkin/pulsar/internal/parfile"
	"github.com/papapumpkin/pulsar/internal/telemetry"
	"github.com/papapumpkin/pulsar/internal/timing"
	"github.com/papapumpkin/pulsar/internal/toa"
)

// env holds the long-lived collaborators shared by every model a command
// builds: the normalization pipeline and the diagnostic sink.
type env struct {
	cfg      config.Config
	pipeline *toa.Pipeline
	sink     diag.Sink
	closers  []io.Closer
}

// openEnv opens the clock store and telemetry file named by cfg. Output
// diagnostics go to out in addition to any configured telemetry and the
// verbose log on logw.
func openEnv(ctx context.Context, cfg config.Config, out diag.Sink, logw io.Writer) (*env, error) {
	e := &env{cfg: cfg}
	sinks := diag.Multi{out}

	var src clock.Source
	if cfg.ClockDB != "" {
		store, err := clock.OpenSQLite(ctx, cfg.ClockDB)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, store)
		src = store
	}
	e.pipeline = toa.NewPipeline(observatory.Default(), src)

	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.closers = append(e.closers, em)
		sinks = append(sinks, diag.NewTelemetrySink(em))
	}
	if cfg.Verbose {
		sinks = append(sinks, diag.NewConsoleSink(logw, diag.LevelDebug))
	}
	e.sink = sinks
	return e, nil
}

// Close releases the clock store and telemetry file.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// toaConfig is the normalization configuration for real and reference
// batches alike.
func (e *env) toaConfig() toa.Config {
	return toa.Config{
		ClockCorr: toa.ClockCorrInfo{
			IncludeBIPM: e.cfg.IncludeBIPM,
			IncludeGPS:  e.cfg.IncludeGPS,
		},
		Ephem:   e.cfg.Ephem,
		Planets: e.cfg.Planets,
	}
}

// model is one par file loaded into a set-up timing model.
type model struct {
	file  *parfile.File
	abs   *absphase.Component
	model *timing.Model
}

// load reads the par file at path and sets up a model from it.
func (e *env) load(path string) (*model, error) {
	f, err := parfile.Load(path)
	if err != nil {
		return nil, err
	}
	abs := absphase.New(e.pipeline, absphase.WithSink(e.sink))
	if err := f.Apply(abs.Params()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err := timing.NewModel(abs)
	if err != nil {
		return nil, err
	}
	if err := m.Setup(); err != nil {
		return nil, err
	}
	return &model{file: f, abs: abs, model: m}, nil
}
