// Package diag carries non-fatal diagnostics from model components to a
// caller-supplied sink. Components never write to a global logger; whoever
// builds the model decides where diagnostics go.
package diag

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/pulsar/internal/telemetry"
)

// Level is the severity of a diagnostic.
type Level int

// Diagnostic severities.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "unknown"
	}
}

// Diagnostic is one structured message from a component.
type Diagnostic struct {
	Level     Level
	Code      string // machine-readable kind, e.g. telemetry.KindParamDefaulted
	Component string
	Param     string
	Message   string
}

// Sink receives diagnostics.
type Sink interface {
	Diagnose(Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

// Diagnose implements Sink.
func (f SinkFunc) Diagnose(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Multi fans a diagnostic out to every sink in order.
type Multi []Sink

// Diagnose implements Sink.
func (m Multi) Diagnose(d Diagnostic) {
	for _, s := range m {
		if s != nil {
			s.Diagnose(d)
		}
	}
}

// Recorder keeps every diagnostic in memory. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Diagnose implements Sink.
func (r *Recorder) Diagnose(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.items...)
}

// LogSink writes diagnostics through a zerolog logger.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink returns a sink logging to logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// NewConsoleSink returns a sink writing human-readable lines to w at or
// above min.
func NewConsoleSink(w io.Writer, min Level) *LogSink {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return NewLogSink(zerolog.New(out).Level(zerologLevel(min)).With().Timestamp().Logger())
}

// Diagnose implements Sink.
func (s *LogSink) Diagnose(d Diagnostic) {
	evt := s.logger.WithLevel(zerologLevel(d.Level))
	if d.Code != "" {
		evt = evt.Str("code", d.Code)
	}
	if d.Component != "" {
		evt = evt.Str("component", d.Component)
	}
	if d.Param != "" {
		evt = evt.Str("param", d.Param)
	}
	evt.Msg(d.Message)
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// TelemetrySink records diagnostics as telemetry events.
type TelemetrySink struct {
	em  *telemetry.Emitter
	now func() time.Time
}

// NewTelemetrySink returns a sink emitting to em. A nil em yields a sink that
// drops everything, matching the nil Emitter contract.
func NewTelemetrySink(em *telemetry.Emitter) *TelemetrySink {
	return &TelemetrySink{em: em, now: time.Now}
}

// Diagnose implements Sink. Diagnostics without a code are recorded as notes.
// Telemetry is best-effort: write failures are dropped.
func (s *TelemetrySink) Diagnose(d Diagnostic) {
	kind := d.Code
	if kind == "" {
		kind = telemetry.KindNote
	}
	_ = s.em.Emit(telemetry.Event{
		Timestamp: s.now().UTC(),
		Kind:      kind,
		Component: d.Component,
		Param:     d.Param,
		Message:   d.Message,
		Data:      map[string]string{"level": d.Level.String()},
	})
}
