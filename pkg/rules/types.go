package rules

import (
	"github.com/arthur-debert/codeguard/pkg/types"
)

// PatternRule is the configured binding of a matcher to a severity, message
// and enablement. It is immutable once compiled.
type PatternRule struct {
	ID          string         `json:"id" yaml:"id" toml:"id"`
	Kind        string         `json:"kind" yaml:"kind" toml:"kind"`
	Severity    types.Severity `json:"severity" yaml:"severity" toml:"severity"`
	Message     string         `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Enabled     bool           `json:"enabled" yaml:"enabled" toml:"enabled"`

	// Matcher payload
	Pattern       string              `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	CaseSensitive bool                `json:"case_sensitive" yaml:"case_sensitive" toml:"case_sensitive"`
	Scope         string              `json:"scope,omitempty" yaml:"scope,omitempty" toml:"scope,omitempty"`
	Engine        string              `json:"engine,omitempty" yaml:"engine,omitempty" toml:"engine,omitempty"`
	SourceRoot    string              `json:"source_root,omitempty" yaml:"source_root,omitempty" toml:"source_root,omitempty"`
	Boundaries    map[string][]string `json:"boundaries,omitempty" yaml:"boundaries,omitempty" toml:"boundaries,omitempty"`

	Exclude Exclusions `json:"exclude" yaml:"exclude" toml:"exclude"`
}

// Exclusions are predicates applied to raw matches before emission
type Exclusions struct {
	InTests      bool     `json:"in_tests" yaml:"in_tests" toml:"in_tests"`
	InGenerated  bool     `json:"in_generated" yaml:"in_generated" toml:"in_generated"`
	FilePatterns []string `json:"file_patterns,omitempty" yaml:"file_patterns,omitempty" toml:"file_patterns,omitempty"`
	Annotations  []string `json:"annotations,omitempty" yaml:"annotations,omitempty" toml:"annotations,omitempty"`
}

// Result is the outcome of evaluating every enabled rule on one file
type Result struct {
	Violations []types.Violation `json:"violations"`
	// Partial is set when structural rules were skipped for the file.
	Partial bool `json:"partial,omitempty"`
}
