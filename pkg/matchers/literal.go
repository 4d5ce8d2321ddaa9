package matchers

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/unit"
	"github.com/dlclark/regexp2"
)

// Literal scopes
const (
	ScopeLine = "line"
	ScopeFile = "file"
)

// Regular expression engines
const (
	EngineRE2      = "re2"
	EngineExtended = "extended"
)

// extendedTimeout bounds a single backtracking match
const extendedTimeout = time.Second

type span struct {
	start, end int
	groups     map[string]string
}

type finder interface {
	findAll(s string) ([]span, error)
}

// Literal matches a regular expression against file content
type Literal struct {
	pattern string
	scope   string
	finder  finder
}

// LiteralOptions configures NewLiteral
type LiteralOptions struct {
	CaseSensitive bool
	Scope         string
	Engine        string
}

// NewLiteral compiles pattern once for reuse across files
func NewLiteral(pattern string, opts LiteralOptions) (*Literal, error) {
	if pattern == "" {
		return nil, errors.New(errors.ErrPatternCompile, "literal pattern cannot be empty")
	}

	scope := opts.Scope
	if scope == "" {
		scope = ScopeLine
	}
	if scope != ScopeLine && scope != ScopeFile {
		return nil, errors.Newf(errors.ErrPatternCompile, "unknown literal scope %q (want line or file)", scope)
	}

	var f finder
	var err error
	switch opts.Engine {
	case "", EngineRE2:
		f, err = compileRE2(pattern, opts.CaseSensitive, scope)
	case EngineExtended:
		f, err = compileExtended(pattern, opts.CaseSensitive, scope)
	default:
		return nil, errors.Newf(errors.ErrPatternCompile, "unknown regex engine %q (want re2 or extended)", opts.Engine)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternCompile, "invalid pattern %q", pattern).
			WithDetail("pattern", pattern)
	}

	return &Literal{pattern: pattern, scope: scope, finder: f}, nil
}

func newLiteralFromSpec(spec Spec) (Matcher, error) {
	return NewLiteral(spec.Pattern, LiteralOptions{
		CaseSensitive: spec.CaseSensitive,
		Scope:         spec.Scope,
		Engine:        spec.Engine,
	})
}

// NeedsStructure is false: literal patterns apply to every file
func (l *Literal) NeedsStructure() bool { return false }

// Match returns every non-empty match in the file
func (l *Literal) Match(u *unit.FileUnit) ([]Match, error) {
	if l.scope == ScopeFile {
		return l.matchFile(u)
	}

	var out []Match
	for i, line := range u.Lines() {
		spans, err := l.finder.findAll(line)
		if err != nil {
			return out, err
		}
		for _, s := range spans {
			out = append(out, Match{
				Line:   i + 1,
				Column: s.start + 1,
				Text:   line[s.start:s.end],
				Attrs:  s.groups,
			})
		}
	}
	return out, nil
}

func (l *Literal) matchFile(u *unit.FileUnit) ([]Match, error) {
	content := string(u.Content)
	spans, err := l.finder.findAll(content)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(spans))
	for _, s := range spans {
		line, col := unit.Position(u.Content, s.start)
		out = append(out, Match{
			Line:   line,
			Column: col,
			Text:   content[s.start:s.end],
			Attrs:  s.groups,
		})
	}
	return out, nil
}

type re2Finder struct {
	re *regexp.Regexp
}

func compileRE2(pattern string, caseSensitive bool, scope string) (finder, error) {
	flags := ""
	if !caseSensitive {
		flags += "i"
	}
	if scope == ScopeFile {
		flags += "m"
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &re2Finder{re: re}, nil
}

func (f *re2Finder) findAll(s string) ([]span, error) {
	idx := f.re.FindAllStringSubmatchIndex(s, -1)
	if len(idx) == 0 {
		return nil, nil
	}
	names := f.re.SubexpNames()
	out := make([]span, 0, len(idx))
	for _, m := range idx {
		if m[1] == m[0] {
			continue
		}
		sp := span{start: m[0], end: m[1]}
		for g := 1; g < len(names); g++ {
			if names[g] == "" || m[2*g] < 0 {
				continue
			}
			if sp.groups == nil {
				sp.groups = make(map[string]string)
			}
			sp.groups[names[g]] = s[m[2*g]:m[2*g+1]]
		}
		out = append(out, sp)
	}
	return out, nil
}

type extendedFinder struct {
	re *regexp2.Regexp
}

func compileExtended(pattern string, caseSensitive bool, scope string) (finder, error) {
	opts := regexp2.RegexOptions(regexp2.None)
	if !caseSensitive {
		opts |= regexp2.IgnoreCase
	}
	if scope == ScopeFile {
		opts |= regexp2.Multiline
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = extendedTimeout
	return &extendedFinder{re: re}, nil
}

func (f *extendedFinder) findAll(s string) ([]span, error) {
	var out []span
	m, err := f.re.FindStringMatch(s)
	// regexp2 reports rune offsets; convert them to byte offsets.
	var offsets []int
	for m != nil && err == nil {
		if m.Length > 0 {
			if offsets == nil {
				offsets = runeOffsets(s)
			}
			sp := span{start: offsets[m.Index], end: offsets[m.Index+m.Length]}
			for _, g := range m.Groups()[1:] {
				if len(g.Captures) == 0 || isNumeric(g.Name) {
					continue
				}
				if sp.groups == nil {
					sp.groups = make(map[string]string)
				}
				sp.groups[g.Name] = g.String()
			}
			out = append(out, sp)
		}
		m, err = f.re.FindNextMatch(m)
	}
	return out, err
}

func runeOffsets(s string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

func isNumeric(name string) bool {
	for _, c := range name {
		if c < '0' || c > '9' {
			return false
		}
	}
	return name != ""
}
