package resolver

import (
	"path"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// Polarity is the effect of a matching pattern
type Polarity int

const (
	Include Polarity = iota
	Exclude
)

func (p Polarity) String() string {
	if p == Include {
		return "include"
	}
	return "exclude"
}

// PathPattern is one compiled entry of an ordered pattern list
type PathPattern struct {
	Polarity Polarity
	Glob     string
	// Base is the slash-separated directory the pattern is relative to,
	// "" for the walk root.
	Base     string
	DirOnly  bool
	Anchored bool
	Source   string

	hasSlash bool
}

// ParsePattern compiles one pattern line relative to base. Blank lines and
// comments return ok=false with no error.
func ParsePattern(line, base string) (PathPattern, bool, error) {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return PathPattern{}, false, nil
	}

	p := PathPattern{Source: text, Base: strings.Trim(base, "/"), Polarity: Exclude}
	if strings.HasPrefix(text, "!") {
		p.Polarity = Include
		text = text[1:]
	}
	if strings.HasSuffix(text, "/") {
		p.DirOnly = true
		text = strings.TrimRight(text, "/")
	}
	if strings.HasPrefix(text, "/") {
		p.Anchored = true
		text = strings.TrimLeft(text, "/")
	}
	if text == "" {
		return PathPattern{}, false, errors.Newf(errors.ErrConfigValid, "empty path pattern %q", line).
			WithDetail("pattern", line)
	}
	if !doublestar.ValidatePattern(text) {
		return PathPattern{}, false, errors.Newf(errors.ErrConfigValid, "invalid glob in path pattern %q", line).
			WithDetail("pattern", line)
	}

	p.Glob = text
	p.hasSlash = p.Anchored || strings.Contains(text, "/")
	return p, true, nil
}

// ParsePatterns compiles an ordered list of root-relative patterns
func ParsePatterns(lines []string) ([]PathPattern, error) {
	patterns := make([]PathPattern, 0, len(lines))
	for _, line := range lines {
		p, ok, err := ParsePattern(line, "")
		if err != nil {
			return nil, err
		}
		if ok {
			patterns = append(patterns, p)
		}
	}
	return patterns, nil
}

// Matches reports whether the pattern matches rel (slash-separated, relative
// to the walk root) or one of its ancestor directories within the base.
func (p PathPattern) Matches(rel string, isDir bool) bool {
	sub, ok := p.relative(rel)
	if !ok {
		return false
	}
	for candidate, candidateIsDir := sub, isDir; candidate != "." && candidate != ""; candidate, candidateIsDir = path.Dir(candidate), true {
		if p.matchOne(candidate, candidateIsDir) {
			return true
		}
	}
	return false
}

func (p PathPattern) relative(rel string) (string, bool) {
	if p.Base == "" {
		return rel, true
	}
	if !strings.HasPrefix(rel, p.Base+"/") {
		return "", false
	}
	return strings.TrimPrefix(rel, p.Base+"/"), true
}

func (p PathPattern) matchOne(candidate string, isDir bool) bool {
	if p.DirOnly && !isDir {
		return false
	}
	target := candidate
	if !p.hasSlash {
		target = path.Base(candidate)
	}
	matched, err := doublestar.Match(p.Glob, target)
	return err == nil && matched
}

// Decide scans patterns backward and returns the polarity of the last one
// matching rel, or def when none does.
func Decide(patterns []PathPattern, rel string, isDir bool, def Polarity) Polarity {
	for i := len(patterns) - 1; i >= 0; i-- {
		if patterns[i].Matches(rel, isDir) {
			return patterns[i].Polarity
		}
	}
	return def
}

func hasInclude(patterns []PathPattern) bool {
	for _, p := range patterns {
		if p.Polarity == Include {
			return true
		}
	}
	return false
}
