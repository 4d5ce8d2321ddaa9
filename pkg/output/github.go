package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/types"
)

// GitHubRenderer writes GitHub Actions workflow commands, one per violation
type GitHubRenderer struct {
	Root string
}

// Render writes the report
func (r *GitHubRenderer) Render(w io.Writer, report *types.Report) error {
	var b strings.Builder
	for _, v := range report.Violations {
		props := []string{"file=" + escapeProperty(displayPath(r.Root, v.Path))}
		if v.Line > 0 {
			props = append(props, fmt.Sprintf("line=%d", v.Line))
		}
		if v.Column > 0 {
			props = append(props, fmt.Sprintf("col=%d", v.Column))
		}
		props = append(props, "title="+escapeProperty(v.RuleID))
		fmt.Fprintf(&b, "::%s %s::%s\n", command(v.Severity), strings.Join(props, ","), escapeData(v.Message))
	}

	c := report.Counts
	fmt.Fprintf(&b, "codeguard: %d errors, %d warnings, %d info in %d files\n", c.Error, c.Warning, c.Info, report.FilesAnalyzed)
	_, err := io.WriteString(w, b.String())
	return err
}

func command(s types.Severity) string {
	switch s {
	case types.SeverityError:
		return "error"
	case types.SeverityWarning:
		return "warning"
	}
	return "notice"
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

var propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}
