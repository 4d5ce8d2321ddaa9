// pkg/style/style_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test theme helpers and plain rendering

package style_test

import (
	"testing"

	"github.com/arthur-debert/codeguard/pkg/style"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestPlainTheme_NoEscapes(t *testing.T) {
	theme := style.PlainTheme()
	for _, sev := range types.AllSeverities {
		out := theme.Severity(sev).Render(sev.String())
		assert.Equal(t, sev.String(), out)
		assert.NotContains(t, out, "\x1b[")
	}
	assert.Equal(t, "a.go", theme.Path.Render("a.go"))
}

func TestSeverityLabel_Aligned(t *testing.T) {
	theme := style.PlainTheme()
	assert.Equal(t, "error  ", theme.SeverityLabel(types.SeverityError))
	assert.Equal(t, "warning", theme.SeverityLabel(types.SeverityWarning))
	assert.Equal(t, "info   ", theme.SeverityLabel(types.SeverityInfo))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", style.Indent("a\n\nb", 1))
	assert.Equal(t, "    a", style.Indent("a", 2))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "file", style.Plural(1, "file"))
	assert.Equal(t, "files", style.Plural(0, "file"))
	assert.Equal(t, "files", style.Plural(3, "file"))
}
