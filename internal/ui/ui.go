// Package ui renders pulsar CLI output with lipgloss styling. Color support is
// detected from the writer each Printer is bound to.
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/pulsar/internal/absphase"
	"github.com/papapumpkin/pulsar/internal/clock"
	"github.com/papapumpkin/pulsar/internal/diag"
	"github.com/papapumpkin/pulsar/internal/toa"
)

// Printer writes styled output to w.
type Printer struct {
	w  io.Writer
	st styles
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w, st: newStyles(lipgloss.NewRenderer(w))}
}

// Params prints the reference parameters as currently set.
func (p *Printer) Params(psr string, params *absphase.Params) {
	if psr != "" {
		fmt.Fprintln(p.w, p.st.title.Render(psr))
	}
	var lines []string
	if t, ok := params.TZRMJD.Value(); ok {
		lines = append(lines, p.row(absphase.ParamTZRMJD, t.String()))
	} else {
		lines = append(lines, p.row(absphase.ParamTZRMJD, p.st.muted.Render("unset")))
	}
	if s, ok := params.TZRSITE.Value(); ok {
		lines = append(lines, p.row(absphase.ParamTZRSITE, s))
	} else {
		lines = append(lines, p.row(absphase.ParamTZRSITE, p.st.muted.Render("unset")))
	}
	if f, ok := params.TZRFRQ.Value(); ok {
		lines = append(lines, p.row(absphase.ParamTZRFRQ, f.String()))
	} else {
		lines = append(lines, p.row(absphase.ParamTZRFRQ, p.st.muted.Render("unset")))
	}
	fmt.Fprintln(p.w, p.st.section.Render(strings.Join(lines, "\n")))
}

// TZR prints the normalized reference arrival.
func (p *Printer) TZR(ev toa.TOA) {
	freq := fmt.Sprintf("%g MHz", ev.FreqMHz)
	if ev.DispersionFree() {
		freq = "inf MHz"
	}
	site := ev.Site
	if ev.Obs != nil {
		site = ev.Obs.Name
	}
	lines := []string{
		p.row("site", site),
		p.row("freq", freq),
		p.row("clock", fmt.Sprintf("%.9f s", ev.ClockCorrSec)),
		p.row("tt", ev.TT.String()),
		p.row("tdb", ev.TDB.String()),
	}
	fmt.Fprintln(p.w, p.st.title.Render("reference toa"))
	fmt.Fprintln(p.w, p.st.section.Render(strings.Join(lines, "\n")))
}

// Diagnose implements diag.Sink so setup notes appear inline with output.
// Debug diagnostics are left to the verbose log.
func (p *Printer) Diagnose(d diag.Diagnostic) {
	if d.Level == diag.LevelDebug {
		return
	}
	icon, style := iconInfo, p.st.muted
	switch d.Level {
	case diag.LevelWarn:
		icon, style = iconWarn, p.st.warn
	case diag.LevelInfo:
		style = p.st.warn
	}
	prefix := d.Component
	if d.Param != "" {
		prefix += "." + d.Param
	}
	fmt.Fprintf(p.w, "%s %s %s\n", style.Render(icon), p.st.muted.Render(prefix), d.Message)
}

// Valid reports that a par file passed setup.
func (p *Printer) Valid(path string) {
	fmt.Fprintf(p.w, "%s %s\n", p.st.ok.Render(iconOK), path)
}

// Invalid reports a par file that failed setup.
func (p *Printer) Invalid(path string, err error) {
	fmt.Fprintf(p.w, "%s %s: %v\n", p.st.danger.Render(iconFail), path, err)
}

// Watching reports that the par file is being watched for edits.
func (p *Printer) Watching(path string) {
	fmt.Fprintf(p.w, "%s watching %s\n", p.st.title.Render(iconWatch), path)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.st.danger.Render("error:"), msg)
}

// ClockImported reports how many clock points were stored for key.
func (p *Printer) ClockImported(key string, n int) {
	fmt.Fprintf(p.w, "%s imported %d point(s) for %s\n", p.st.ok.Render(iconOK), n, key)
}

// ClockKeys lists the stored clock keys with their point counts.
func (p *Printer) ClockKeys(keys map[string]int) {
	if len(keys) == 0 {
		fmt.Fprintln(p.w, p.st.muted.Render("no clock data"))
		return
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintln(p.w, p.row(k, fmt.Sprintf("%d point(s)", keys[k])))
	}
}

// ClockPoints prints the points stored for key.
func (p *Printer) ClockPoints(key string, pts []clock.Point) {
	fmt.Fprintln(p.w, p.st.title.Render(key))
	for _, pt := range pts {
		fmt.Fprintf(p.w, "  %12.5f  %+.3f us\n", pt.MJD, pt.Offset*1e6)
	}
}

func (p *Printer) row(label, value string) string {
	return p.st.label.Render(label) + p.st.value.Render(value)
}
