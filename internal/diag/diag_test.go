package diag

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/pulsar/internal/telemetry"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	r.Diagnose(Diagnostic{Level: LevelInfo, Param: "TZRSITE"})
	r.Diagnose(Diagnostic{Level: LevelWarn, Param: "TZRFRQ"})

	got := r.Diagnostics()
	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(got))
	}
	got[0].Param = "mutated"
	if r.Diagnostics()[0].Param != "TZRSITE" {
		t.Error("Diagnostics() must return a copy")
	}
}

func TestMulti_FansOut(t *testing.T) {
	t.Parallel()

	var a, b Recorder
	m := Multi{&a, nil, &b}
	m.Diagnose(Diagnostic{Message: "hello"})

	if len(a.Diagnostics()) != 1 || len(b.Diagnostics()) != 1 {
		t.Errorf("fan-out counts = %d, %d; want 1, 1", len(a.Diagnostics()), len(b.Diagnostics()))
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	Discard.Diagnose(Diagnostic{Message: "ignored"})
}

func TestLogSink_WritesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))
	sink.Diagnose(Diagnostic{
		Level:     LevelInfo,
		Code:      telemetry.KindParamDefaulted,
		Component: "AbsPhase",
		Param:     "TZRSITE",
		Message:   "TZRSITE is set at the solar system barycenter",
	})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]string{
		"level":     "info",
		"code":      telemetry.KindParamDefaulted,
		"component": "AbsPhase",
		"param":     "TZRSITE",
		"message":   "TZRSITE is set at the solar system barycenter",
	}
	for k, v := range want {
		if line[k] != v {
			t.Errorf("%s = %v, want %q", k, line[k], v)
		}
	}
}

func TestConsoleSink_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, LevelInfo)
	sink.Diagnose(Diagnostic{Level: LevelDebug, Message: "hidden"})
	sink.Diagnose(Diagnostic{Level: LevelInfo, Message: "shown"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug diagnostic leaked at info level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info diagnostic missing: %s", out)
	}
}

func TestTelemetrySink_Emits(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "events.jsonl")
	em, err := telemetry.NewEmitter(path)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	sink := NewTelemetrySink(em)
	sink.Diagnose(Diagnostic{Level: LevelInfo, Code: telemetry.KindSetupDone, Component: "AbsPhase"})
	sink.Diagnose(Diagnostic{Level: LevelDebug, Message: "uncoded"})
	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var first, second telemetry.Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 1: %v", err)
	}
	if first.Kind != telemetry.KindSetupDone || first.Component != "AbsPhase" {
		t.Errorf("first event = %+v", first)
	}
	if second.Kind != telemetry.KindNote {
		t.Errorf("uncoded diagnostic kind = %q, want %q", second.Kind, telemetry.KindNote)
	}
}

func TestTelemetrySink_NilEmitter(t *testing.T) {
	t.Parallel()
	NewTelemetrySink(nil).Diagnose(Diagnostic{Message: "dropped"})
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	tests := map[Level]string{LevelDebug: "debug", LevelInfo: "info", LevelWarn: "warn", Level(9): "unknown"}
	for l, want := range tests {
		if got := l.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(l), got, want)
		}
	}
}
