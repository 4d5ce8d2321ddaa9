package config

import (
	"path/filepath"
	"time"

	"github.com/arthur-debert/codeguard/pkg/analyzer"
	"github.com/arthur-debert/codeguard/pkg/paths"
	"github.com/arthur-debert/codeguard/pkg/resolver"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
)

// Config is the merged configuration for one project
type Config struct {
	Paths      Paths               `koanf:"paths" toml:"paths" yaml:"paths"`
	Analysis   Analysis            `koanf:"analysis" toml:"analysis" yaml:"analysis"`
	Cache      Cache               `koanf:"cache" toml:"cache" yaml:"cache"`
	Output     Output              `koanf:"output" toml:"output" yaml:"output"`
	Watch      Watch               `koanf:"watch" toml:"watch" yaml:"watch"`
	Categories map[string]Override `koanf:"categories" toml:"categories,omitempty" yaml:"categories,omitempty"`
	Overrides  map[string]Override `koanf:"overrides" toml:"overrides,omitempty" yaml:"overrides,omitempty"`
	Rules      []Rule              `koanf:"rules" toml:"rules,omitempty" yaml:"rules,omitempty"`

	// Root is the project root the configuration was loaded for.
	Root string `koanf:"-" toml:"-" yaml:"-"`
	// Sources lists the files that contributed, in load order.
	Sources []string `koanf:"-" toml:"-" yaml:"-"`

	resolved []rules.PatternRule
}

// Paths configures file selection
type Paths struct {
	Patterns   []string `koanf:"patterns" toml:"patterns" yaml:"patterns"`
	IgnoreFile string   `koanf:"ignore_file" toml:"ignore_file" yaml:"ignore_file"`
	Default    string   `koanf:"default" toml:"default" yaml:"default"`
}

// Analysis configures the orchestrator
type Analysis struct {
	Parallel      bool `koanf:"parallel" toml:"parallel" yaml:"parallel"`
	Workers       int  `koanf:"workers" toml:"workers" yaml:"workers"`
	FailFast      bool `koanf:"fail_fast" toml:"fail_fast" yaml:"fail_fast"`
	MaxViolations int  `koanf:"max_violations" toml:"max_violations" yaml:"max_violations"`
}

// Cache configures result caching
type Cache struct {
	Enabled    bool   `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	MaxEntries int    `koanf:"max_entries" toml:"max_entries" yaml:"max_entries"`
	Dir        string `koanf:"dir" toml:"dir" yaml:"dir"`
}

// Output configures report rendering
type Output struct {
	Format      string `koanf:"format" toml:"format" yaml:"format"`
	MinSeverity string `koanf:"min_severity" toml:"min_severity" yaml:"min_severity"`
}

// Watch configures watch mode
type Watch struct {
	Debounce time.Duration `koanf:"debounce" toml:"debounce" yaml:"debounce"`
}

// Override adjusts severity or enablement of existing rules
type Override struct {
	Severity string `koanf:"severity" toml:"severity,omitempty" yaml:"severity,omitempty"`
	Enabled  *bool  `koanf:"enabled" toml:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// Rule is a rule as written in a project file
type Rule struct {
	ID            string              `koanf:"id" toml:"id" yaml:"id"`
	Kind          string              `koanf:"kind" toml:"kind" yaml:"kind"`
	Severity      string              `koanf:"severity" toml:"severity" yaml:"severity"`
	Message       string              `koanf:"message" toml:"message,omitempty" yaml:"message,omitempty"`
	Description   string              `koanf:"description" toml:"description,omitempty" yaml:"description,omitempty"`
	Category      string              `koanf:"category" toml:"category,omitempty" yaml:"category,omitempty"`
	Enabled       *bool               `koanf:"enabled" toml:"enabled,omitempty" yaml:"enabled,omitempty"`
	Pattern       string              `koanf:"pattern" toml:"pattern,omitempty" yaml:"pattern,omitempty"`
	CaseSensitive *bool               `koanf:"case_sensitive" toml:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	Scope         string              `koanf:"scope" toml:"scope,omitempty" yaml:"scope,omitempty"`
	Engine        string              `koanf:"engine" toml:"engine,omitempty" yaml:"engine,omitempty"`
	SourceRoot    string              `koanf:"source_root" toml:"source_root,omitempty" yaml:"source_root,omitempty"`
	Boundaries    map[string][]string `koanf:"boundaries" toml:"boundaries,omitempty" yaml:"boundaries,omitempty"`
	Exclude       Exclude             `koanf:"exclude" toml:"exclude" yaml:"exclude"`
}

// Exclude mirrors rules.Exclusions for project files
type Exclude struct {
	InTests      bool     `koanf:"in_tests" toml:"in_tests" yaml:"in_tests"`
	InGenerated  bool     `koanf:"in_generated" toml:"in_generated" yaml:"in_generated"`
	FilePatterns []string `koanf:"file_patterns" toml:"file_patterns,omitempty" yaml:"file_patterns,omitempty"`
	Annotations  []string `koanf:"annotations" toml:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// PatternRule converts r into a rule for the engine. Enablement and case
// sensitivity default to true.
func (r Rule) PatternRule() rules.PatternRule {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	caseSensitive := true
	if r.CaseSensitive != nil {
		caseSensitive = *r.CaseSensitive
	}
	return rules.PatternRule{
		ID:            r.ID,
		Kind:          r.Kind,
		Severity:      types.Severity(r.Severity),
		Message:       r.Message,
		Description:   r.Description,
		Category:      r.Category,
		Enabled:       enabled,
		Pattern:       r.Pattern,
		CaseSensitive: caseSensitive,
		Scope:         r.Scope,
		Engine:        r.Engine,
		SourceRoot:    r.SourceRoot,
		Boundaries:    r.Boundaries,
		Exclude: rules.Exclusions{
			InTests:      r.Exclude.InTests,
			InGenerated:  r.Exclude.InGenerated,
			FilePatterns: r.Exclude.FilePatterns,
			Annotations:  r.Exclude.Annotations,
		},
	}
}

// ResolvedRules returns the effective rule set after merging and overrides
func (c *Config) ResolvedRules() []rules.PatternRule {
	out := make([]rules.PatternRule, len(c.resolved))
	copy(out, c.resolved)
	return out
}

// Engine compiles the effective rule set
func (c *Config) Engine() (*rules.Engine, error) {
	return rules.Compile(c.resolved, rules.WithProjectRoot(c.Root))
}

// DefaultPolarity returns the polarity for files no pattern matches
func (c *Config) DefaultPolarity() resolver.Polarity {
	if c.Paths.Default == "exclude" {
		return resolver.Exclude
	}
	return resolver.Include
}

// AnalyzerOptions returns the orchestrator options from the analysis section
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		Parallel:      c.Analysis.Parallel,
		Workers:       c.Analysis.Workers,
		FailFast:      c.Analysis.FailFast,
		MaxViolations: c.Analysis.MaxViolations,
	}
}

// MinSeverity returns the configured report threshold
func (c *Config) MinSeverity() types.Severity {
	s, err := types.ParseSeverity(c.Output.MinSeverity)
	if err != nil {
		return types.SeverityInfo
	}
	return s
}

// CacheFile returns the snapshot path for the project
func (c *Config) CacheFile() string {
	file := paths.CacheFileFor(c.Root)
	if c.Cache.Dir == "" {
		return file
	}
	return filepath.Join(c.Cache.Dir, filepath.Base(file))
}

// FromPatternRule converts an engine rule back to its file form
func FromPatternRule(r rules.PatternRule) Rule {
	enabled := r.Enabled
	caseSensitive := r.CaseSensitive
	return Rule{
		ID:            r.ID,
		Kind:          r.Kind,
		Severity:      string(r.Severity),
		Message:       r.Message,
		Description:   r.Description,
		Category:      r.Category,
		Enabled:       &enabled,
		Pattern:       r.Pattern,
		CaseSensitive: &caseSensitive,
		Scope:         r.Scope,
		Engine:        r.Engine,
		SourceRoot:    r.SourceRoot,
		Boundaries:    r.Boundaries,
		Exclude: Exclude{
			InTests:      r.Exclude.InTests,
			InGenerated:  r.Exclude.InGenerated,
			FilePatterns: r.Exclude.FilePatterns,
			Annotations:  r.Exclude.Annotations,
		},
	}
}
