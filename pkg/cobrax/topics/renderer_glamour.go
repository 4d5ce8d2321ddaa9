package topics

import (
	"github.com/charmbracelet/glamour"
)

// Glamour standard style names
const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
)

// GlamourRenderer renders markdown topics with glamour. Other formats pass
// through unchanged.
type GlamourRenderer struct {
	// Style is a glamour standard style name. Empty or "auto" detects the
	// terminal background.
	Style string
	// Width wraps output at this column when positive.
	Width int
}

// NewGlamourRenderer returns a renderer with styling when color is set and
// the plain "notty" style otherwise.
func NewGlamourRenderer(color bool) *GlamourRenderer {
	if !color {
		return &GlamourRenderer{Style: StyleNoTTY, Width: 80}
	}
	return &GlamourRenderer{Style: StyleAuto, Width: 80}
}

// Render converts markdown to terminal output, falling back to the raw
// content when glamour fails.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != StyleAuto {
		options = append(options, glamour.WithStandardStyle(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
