package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
}

// newStyles detects the color profile of w, so output piped to a file or
// another process stays plain text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		heading: r.NewStyle().Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
