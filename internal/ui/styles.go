package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan, headings
	colorAccent  = lipgloss.Color("#FFD700") // Gold, defaulted values
	colorSuccess = lipgloss.Color("#00E676") // Green, ok
	colorDanger  = lipgloss.Color("#FF5252") // Red, errors
	colorMuted   = lipgloss.Color("#8C8C8C") // Gray, labels
)

// Status icons.
const (
	iconOK    = "✓"
	iconFail  = "✗"
	iconInfo  = "·"
	iconWarn  = "⚠"
	iconWatch = "◎"
)

// styles binds the palette to one renderer so color support follows the
// printer's writer rather than os.Stdout.
type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	danger  lipgloss.Style
	muted   lipgloss.Style
	section lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Foreground(colorPrimary).Bold(true),
		label:   r.NewStyle().Foreground(colorMuted).Width(10),
		value:   r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(colorSuccess).Bold(true),
		warn:    r.NewStyle().Foreground(colorAccent),
		danger:  r.NewStyle().Foreground(colorDanger).Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		section: r.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(colorPrimary).PaddingLeft(1),
	}
}
