package rules

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/matchers"
	"github.com/arthur-debert/codeguard/pkg/structure"
	"github.com/arthur-debert/codeguard/pkg/unit"
	"github.com/bmatcuk/doublestar/v4"
)

// generatedHeader is the conventional marker of generated Go and protobuf sources
var generatedHeader = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// fileContext caches per-file facts shared by every rule
type fileContext struct {
	u         *unit.FileUnit
	slashPath string
	testFile  bool
	generated bool
}

func newFileContext(u *unit.FileUnit) *fileContext {
	slash := filepath.ToSlash(u.Path)
	return &fileContext{
		u:         u,
		slashPath: slash,
		testFile:  IsTestPath(slash),
		generated: isGenerated(u),
	}
}

// IsTestPath reports whether a path holds test code: Go test files and
// anything below a testdata directory.
func IsTestPath(p string) bool {
	p = filepath.ToSlash(p)
	if structure.IsTestFile(p) {
		return true
	}
	for _, segment := range strings.Split(path.Dir(p), "/") {
		if segment == "testdata" {
			return true
		}
	}
	return false
}

// isGenerated looks for the generated-code header before the first
// non-comment line.
func isGenerated(u *unit.FileUnit) bool {
	for _, line := range u.Lines() {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if generatedHeader.MatchString(line) {
			return true
		}
		if !strings.HasPrefix(line, "//") {
			return false
		}
	}
	return false
}

// excludedFile applies the exclusions that depend only on the file
func (c *fileContext) excludedFile(rule PatternRule) bool {
	if rule.Exclude.InGenerated && c.generated {
		return true
	}
	if rule.Exclude.InTests && c.testFile {
		return true
	}
	for _, pattern := range rule.Exclude.FilePatterns {
		if matchFilePattern(pattern, c.slashPath) {
			return true
		}
	}
	return false
}

// excludedMatch applies the exclusions that depend on the match location
func (c *fileContext) excludedMatch(rule PatternRule, m matchers.Match) bool {
	if rule.Exclude.InTests && m.TestOnly {
		return true
	}
	if len(rule.Exclude.Annotations) == 0 {
		return false
	}
	for _, annotation := range m.Annotations {
		if allows(annotation, rule) {
			return true
		}
	}
	// Matches without structure honor an inline directive on the matched line.
	line := c.u.Line(m.Line)
	if idx := strings.Index(line, "//"+structure.DirectivePrefix); idx >= 0 {
		return allows(strings.TrimSpace(line[idx+2:]), rule)
	}
	return false
}

// allows reports whether a directive such as "codeguard:allow" or
// "codeguard:allow todo_comments" silences rule.
func allows(directive string, rule PatternRule) bool {
	for _, want := range rule.Exclude.Annotations {
		if directive == want {
			return true
		}
		rest, ok := strings.CutPrefix(directive, want+" ")
		if !ok {
			continue
		}
		ids := strings.Fields(rest)
		if len(ids) == 0 {
			return true
		}
		for _, id := range ids {
			if id == rule.ID {
				return true
			}
		}
	}
	return false
}

// matchFilePattern matches slashless patterns against the base name and
// others against the whole path.
func matchFilePattern(pattern, slashPath string) bool {
	target := slashPath
	if !strings.Contains(pattern, "/") {
		target = path.Base(slashPath)
	}
	ok, err := doublestar.Match(pattern, target)
	if err == nil && ok {
		return true
	}
	// Relative patterns also match at any depth of an absolute or rooted path.
	if strings.Contains(pattern, "/") && !strings.HasPrefix(pattern, "/") && !strings.HasPrefix(pattern, "**/") {
		ok, err = doublestar.Match("**/"+pattern, strings.TrimPrefix(slashPath, "/"))
		return err == nil && ok
	}
	return false
}
