package rules

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/matchers"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/arthur-debert/codeguard/pkg/unit"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// maxContext bounds the context snippet stored on a violation
const maxContext = 200

type compiledRule struct {
	rule    PatternRule
	matcher matchers.Matcher
}

// Engine evaluates a compiled rule set against files
type Engine struct {
	rules       []compiledRule
	fingerprint string
	structural  bool
	logger      zerolog.Logger
}

// CompileOption adjusts how a rule set is compiled
type CompileOption func(*compileOptions)

type compileOptions struct {
	projectRoot string
}

// WithProjectRoot resolves import-boundary source roots against root
func WithProjectRoot(root string) CompileOption {
	return func(o *compileOptions) { o.projectRoot = root }
}

// Compile validates every rule and builds its matcher. Any invalid rule is a
// fatal error; nothing is compiled lazily during matching.
func Compile(ruleSet []PatternRule, opts ...CompileOption) (*Engine, error) {
	logger := logging.GetLogger("rules")

	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{logger: logger}
	seen := make(map[string]struct{}, len(ruleSet))

	for _, rule := range ruleSet {
		if err := validate(rule, seen); err != nil {
			return nil, err
		}
		seen[rule.ID] = struct{}{}

		m, err := matchers.Build(rule.Kind, matchers.Spec{
			Pattern:       rule.Pattern,
			CaseSensitive: rule.CaseSensitive,
			Scope:         rule.Scope,
			Engine:        rule.Engine,
			SourceRoot:    rule.SourceRoot,
			Boundaries:    rule.Boundaries,
			ProjectRoot:   o.projectRoot,
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPatternCompile, "rule %q", rule.ID).
				WithDetail("rule", rule.ID)
		}

		rule = cloneRule(rule)
		e.rules = append(e.rules, compiledRule{rule: rule, matcher: m})
		if rule.Enabled && m.NeedsStructure() {
			e.structural = true
		}
	}

	fp, err := fingerprint(ruleSet)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to fingerprint rule set")
	}
	e.fingerprint = fp

	logger.Debug().
		Int("rules", len(e.rules)).
		Int("enabled", e.EnabledCount()).
		Str("fingerprint", fp[:12]).
		Msg("Compiled rule set")

	return e, nil
}

func validate(rule PatternRule, seen map[string]struct{}) error {
	if strings.TrimSpace(rule.ID) == "" {
		return errors.New(errors.ErrConfigValid, "rule id cannot be empty")
	}
	if strings.HasPrefix(rule.ID, "codeguard/") {
		return errors.Newf(errors.ErrConfigValid, "rule id %q uses the reserved codeguard/ prefix", rule.ID)
	}
	if _, dup := seen[rule.ID]; dup {
		return errors.Newf(errors.ErrConfigValid, "duplicate rule id %q", rule.ID).WithDetail("rule", rule.ID)
	}
	if !rule.Severity.Valid() {
		return errors.Newf(errors.ErrConfigValid, "rule %q has invalid severity %q", rule.ID, rule.Severity).
			WithDetail("rule", rule.ID)
	}
	for _, p := range rule.Exclude.FilePatterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Newf(errors.ErrPatternCompile, "rule %q has invalid file pattern %q", rule.ID, p).
				WithDetail("rule", rule.ID)
		}
	}
	return nil
}

func cloneRule(rule PatternRule) PatternRule {
	rule.Exclude.FilePatterns = append([]string(nil), rule.Exclude.FilePatterns...)
	rule.Exclude.Annotations = append([]string(nil), rule.Exclude.Annotations...)
	if rule.Boundaries != nil {
		b := make(map[string][]string, len(rule.Boundaries))
		for k, v := range rule.Boundaries {
			b[k] = append([]string(nil), v...)
		}
		rule.Boundaries = b
	}
	return rule
}

// Fingerprint returns the digest of the compiled rule set
func (e *Engine) Fingerprint() string {
	return e.fingerprint
}

// Rules returns copies of the compiled rules in configuration order
func (e *Engine) Rules() []PatternRule {
	out := make([]PatternRule, len(e.rules))
	for i, cr := range e.rules {
		out[i] = cloneRule(cr.rule)
	}
	return out
}

// Rule returns the rule with the given id
func (e *Engine) Rule(id string) (PatternRule, bool) {
	for _, cr := range e.rules {
		if cr.rule.ID == id {
			return cloneRule(cr.rule), true
		}
	}
	return PatternRule{}, false
}

// EnabledCount returns how many rules are enabled
func (e *Engine) EnabledCount() int {
	n := 0
	for _, cr := range e.rules {
		if cr.rule.Enabled {
			n++
		}
	}
	return n
}

// Evaluate runs every enabled rule against u. A structural parse failure
// skips structural and semantic rules, keeps literal results and records a
// partial-analysis diagnostic.
func (e *Engine) Evaluate(u *unit.FileUnit) Result {
	var res Result
	if e.EnabledCount() == 0 {
		return res
	}

	structureOK := false
	if e.structural && u.HasStructure() {
		if _, err := u.Structure(); err != nil {
			res.Partial = true
			res.Violations = append(res.Violations, partialDiagnostic(u.Path, err))
			e.logger.Debug().Err(err).Str("path", u.Path).Msg("Structural rules skipped")
		} else {
			structureOK = true
		}
	}

	ctx := newFileContext(u)
	for _, cr := range e.rules {
		if !cr.rule.Enabled {
			continue
		}
		if cr.matcher.NeedsStructure() && !structureOK {
			continue
		}
		if ctx.excludedFile(cr.rule) {
			continue
		}

		matches, err := cr.matcher.Match(u)
		if err != nil {
			res.Partial = true
			res.Violations = append(res.Violations, types.Violation{
				RuleID:   types.DiagnosticPartialAnalysis,
				Severity: types.SeverityInfo,
				Path:     u.Path,
				Message:  fmt.Sprintf("rule %s skipped: %v", cr.rule.ID, err),
			})
			e.logger.Warn().Err(err).Str("rule", cr.rule.ID).Str("path", u.Path).Msg("Rule evaluation failed")
			continue
		}

		for _, m := range matches {
			if ctx.excludedMatch(cr.rule, m) {
				continue
			}
			res.Violations = append(res.Violations, types.Violation{
				RuleID:   cr.rule.ID,
				Severity: cr.rule.Severity,
				Path:     u.Path,
				Line:     m.Line,
				Column:   m.Column,
				Message:  Render(cr.rule, u.Path, m),
				Context:  snippet(u.Line(m.Line)),
			})
		}
	}

	res.Violations = types.DedupViolations(res.Violations)
	types.SortViolations(res.Violations)
	return res
}

func partialDiagnostic(path string, err error) types.Violation {
	v := types.Violation{
		RuleID:   types.DiagnosticPartialAnalysis,
		Severity: types.SeverityInfo,
		Path:     path,
		Message:  "structural analysis skipped: " + rootCause(err),
	}
	var guardErr *errors.GuardError
	if stderrors.As(err, &guardErr) {
		if line, ok := guardErr.Details["line"].(int); ok {
			v.Line = line
		}
	}
	return v
}

func rootCause(err error) string {
	for {
		next := stderrors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Render expands the rule's message template for one match. Unknown
// placeholders are kept verbatim.
func Render(rule PatternRule, path string, m matchers.Match) string {
	tmpl := rule.Message
	if tmpl == "" {
		tmpl = "{match}"
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := token[1 : len(token)-1]
		switch key {
		case "match":
			return m.Text
		case "rule":
			return rule.ID
		case "file":
			return path
		case "line":
			return fmt.Sprint(m.Line)
		case "column":
			return fmt.Sprint(m.Column)
		case "severity":
			return string(rule.Severity)
		}
		if v, ok := m.Attrs[key]; ok {
			return v
		}
		return token
	})
}

func snippet(line string) string {
	line = strings.TrimSpace(line)
	if len(line) <= maxContext {
		return line
	}
	cut := maxContext
	for cut > 0 && !isRuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
