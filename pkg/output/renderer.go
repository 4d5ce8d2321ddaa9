package output

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/style"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes a report
type Renderer interface {
	Render(w io.Writer, report *types.Report) error
}

// Options tune renderers that support them
type Options struct {
	// Color enables ANSI styling in the text format.
	Color bool
	// Root is trimmed from displayed paths when set.
	Root string
}

// New returns the renderer for f. FormatAuto is resolved first.
func New(f Format, opts Options) Renderer {
	switch Resolve(f) {
	case FormatJSON:
		return &JSONRenderer{}
	case FormatJUnit:
		return &JUnitRenderer{Root: opts.Root}
	case FormatGitHub:
		return &GitHubRenderer{Root: opts.Root}
	}
	theme := style.PlainTheme()
	if opts.Color {
		theme = style.NewTheme(lipgloss.DefaultRenderer())
	}
	return &TextRenderer{Theme: theme, Root: opts.Root}
}

// displayPath shortens path relative to root when it lies below it
func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
