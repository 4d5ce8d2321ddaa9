package rules

import (
	"github.com/arthur-debert/codeguard/pkg/matchers"
	"github.com/arthur-debert/codeguard/pkg/types"
)

// AllowAnnotation is the directive that silences rules on a function or line
const AllowAnnotation = "codeguard:allow"

// Default rule categories
const (
	CategoryPlaceholders = "placeholders"
	CategoryIncomplete   = "incomplete"
	CategoryArchitecture = "architecture"
)

// Defaults returns the built-in rule set
func Defaults() []PatternRule {
	allow := []string{AllowAnnotation}
	return []PatternRule{
		{
			ID:            "todo_comments",
			Kind:          matchers.KindLiteral,
			Severity:      types.SeverityError,
			Category:      CategoryPlaceholders,
			Enabled:       true,
			Pattern:       `\b(TODO|FIXME|XXX)\b`,
			CaseSensitive: true,
			Message:       "Unresolved {match} marker",
			Description:   "Comment markers left for later work. Resolve them or track them outside the code.",
			Exclude:       Exclusions{InGenerated: true, Annotations: allow},
		},
		{
			ID:            "temporary_markers",
			Kind:          matchers.KindLiteral,
			Severity:      types.SeverityWarning,
			Category:      CategoryPlaceholders,
			Enabled:       true,
			Pattern:       `\b(HACK|TEMPORARY|KLUDGE)\b`,
			CaseSensitive: true,
			Message:       "Temporary code marker {match}",
			Description:   "Markers flagging code meant to be replaced.",
			Exclude:       Exclusions{InTests: true, InGenerated: true, Annotations: allow},
		},
		{
			ID:          "unimplemented_calls",
			Kind:        matchers.KindStructural,
			Severity:    types.SeverityError,
			Category:    CategoryIncomplete,
			Enabled:     true,
			Pattern:     `call:panic~(?i)\b(not (yet )?implemented|unimplemented|todo)\b`,
			Message:     "{callee} marks an unfinished implementation",
			Description: "Calls that stand in for code that was never written.",
			Exclude:     Exclusions{InTests: true, InGenerated: true, Annotations: allow},
		},
		{
			ID:          "empty_success_return",
			Kind:        matchers.KindStructural,
			Severity:    types.SeverityError,
			Category:    CategoryIncomplete,
			Enabled:     true,
			Pattern:     matchers.ShapeSuccessOnlyReturn,
			Message:     "Function {name} only returns {value}; implementation looks incomplete",
			Description: "Functions whose whole body reports success without doing any work.",
			Exclude:     Exclusions{InTests: true, InGenerated: true, Annotations: allow},
		},
		{
			ID:          "empty_function_body",
			Kind:        matchers.KindStructural,
			Severity:    types.SeverityWarning,
			Category:    CategoryIncomplete,
			Enabled:     false,
			Pattern:     matchers.ShapeEmptyFunctionBody,
			Message:     "Function {name} has an empty body",
			Description: "Declared functions without any statement.",
			Exclude:     Exclusions{InTests: true, InGenerated: true, Annotations: allow},
		},
	}
}
