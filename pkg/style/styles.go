package style

import (
	"io"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is a set of styles bound to one lipgloss renderer, so output
// written to a pipe and to a terminal can be styled independently.
type Theme struct {
	Title   lipgloss.Style
	Path    lipgloss.Style
	Rule    lipgloss.Style
	Context lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Box     lipgloss.Style
}

// NewTheme builds the styles on r
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Title: r.NewStyle().
			Foreground(HeadingColor).
			Bold(true),
		Path: r.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Underline(true),
		Rule: r.NewStyle().
			Foreground(SecondaryColor),
		Context: r.NewStyle().
			Foreground(TextColor).
			Italic(true),
		Muted: r.NewStyle().
			Foreground(MutedColor),
		Success: r.NewStyle().
			Foreground(SuccessColor).
			Bold(true),
		Error: r.NewStyle().
			Foreground(ErrorColor).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(WarningColor).
			Bold(true),
		Info: r.NewStyle().
			Foreground(InfoColor),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1),
	}
}

// PlainTheme returns a theme that emits no escape sequences
func PlainTheme() Theme {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	r.SetHasDarkBackground(true)
	return NewTheme(r)
}

// Severity returns the style for s
func (t Theme) Severity(s types.Severity) lipgloss.Style {
	switch s {
	case types.SeverityError:
		return t.Error
	case types.SeverityWarning:
		return t.Warning
	}
	return t.Info
}

// SeverityLabel renders s padded to the widest severity name
func (t Theme) SeverityLabel(s types.Severity) string {
	label := s.String()
	return t.Severity(s).Render(label) + strings.Repeat(" ", severityWidth-len(label))
}

const severityWidth = len("warning")

// Indent adds indentation to each line of text
func Indent(text string, level int) string {
	indent := strings.Repeat("  ", level)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// Plural returns word with an s suffix unless n is one
func Plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
