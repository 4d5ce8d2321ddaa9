package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/style"
	"github.com/arthur-debert/codeguard/pkg/types"
)

// TextRenderer prints violations grouped by file followed by a summary
type TextRenderer struct {
	Theme style.Theme
	Root  string
}

// Render writes the report
func (r *TextRenderer) Render(w io.Writer, report *types.Report) error {
	var b strings.Builder
	t := r.Theme

	order, groups := report.ByPath()
	for _, path := range order {
		b.WriteString(t.Path.Render(displayPath(r.Root, path)))
		b.WriteString("\n")
		for _, v := range groups[path] {
			b.WriteString("  ")
			b.WriteString(t.Muted.Render(fmt.Sprintf("%-8s", position(v))))
			b.WriteString(" ")
			b.WriteString(t.SeverityLabel(v.Severity))
			b.WriteString("  ")
			b.WriteString(v.Message)
			b.WriteString("  ")
			b.WriteString(t.Rule.Render(v.RuleID))
			b.WriteString("\n")
			if v.Context != "" {
				b.WriteString(style.Indent(t.Context.Render(v.Context), 6))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(r.summary(report))
	b.WriteString("\n")
	for _, note := range r.notes(report) {
		b.WriteString(t.Muted.Render(note))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func position(v types.Violation) string {
	switch {
	case v.Line == 0:
		return "-"
	case v.Column == 0:
		return fmt.Sprintf("%d", v.Line)
	}
	return fmt.Sprintf("%d:%d", v.Line, v.Column)
}

func (r *TextRenderer) summary(report *types.Report) string {
	t := r.Theme
	c := report.Counts
	files := fmt.Sprintf("%d %s", report.FilesAnalyzed, style.Plural(report.FilesAnalyzed, "file"))

	if c.Total() == 0 {
		return t.Success.Render("✔ No problems found") + t.Muted.Render(" in "+files)
	}

	head := t.Success
	if c.Error > 0 {
		head = t.Error
	} else if c.Warning > 0 {
		head = t.Warning
	}

	return head.Render(fmt.Sprintf("✖ %d %s", c.Total(), style.Plural(c.Total(), "problem"))) +
		fmt.Sprintf(" (%s, %s, %s)",
			t.Error.Render(fmt.Sprintf("%d %s", c.Error, style.Plural(c.Error, "error"))),
			t.Warning.Render(fmt.Sprintf("%d %s", c.Warning, style.Plural(c.Warning, "warning"))),
			t.Info.Render(fmt.Sprintf("%d info", c.Info))) +
		t.Muted.Render(" in "+files)
}

func (r *TextRenderer) notes(report *types.Report) []string {
	var notes []string
	if report.CacheHits > 0 {
		notes = append(notes, fmt.Sprintf("%d of %d files served from cache", report.CacheHits, report.FilesAnalyzed))
	}
	if n := len(report.Partial); n > 0 {
		notes = append(notes, fmt.Sprintf("structural rules skipped for %d %s: %s", n, style.Plural(n, "file"), r.joinPaths(report.Partial)))
	}
	if n := len(report.Skipped); n > 0 {
		notes = append(notes, fmt.Sprintf("%d unreadable %s skipped: %s", n, style.Plural(n, "file"), r.joinPaths(report.Skipped)))
	}
	if report.Aborted {
		notes = append(notes, "stopped after the first error (fail-fast)")
	}
	if report.Truncated {
		notes = append(notes, "violation limit reached; remaining files were not reported")
	}
	if n := report.Withheld.Total(); n > 0 {
		notes = append(notes, fmt.Sprintf("%d more %s not shown (%d %s)",
			n, style.Plural(n, "violation"), report.Withheld.Error, style.Plural(report.Withheld.Error, "error")))
	}
	return notes
}

func (r *TextRenderer) joinPaths(paths []string) string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = displayPath(r.Root, p)
	}
	return strings.Join(out, ", ")
}
