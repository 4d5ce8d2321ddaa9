package config

import (
	"fmt"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/resolver"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
)

// Formats are the accepted output.format values
var Formats = []string{"auto", "text", "json", "junit", "github"}

// Validate checks every section and compiles the rule set. All failures
// are fatal and carry CONFIG_INVALID or PATTERN_COMPILE.
func Validate(cfg *Config) error {
	switch cfg.Paths.Default {
	case "include", "exclude":
	default:
		return invalid("paths.default", "must be include or exclude, got %q", cfg.Paths.Default)
	}
	if _, err := resolver.ParsePatterns(cfg.Paths.Patterns); err != nil {
		return err
	}

	if cfg.Analysis.Workers < 0 {
		return invalid("analysis.workers", "cannot be negative, got %d", cfg.Analysis.Workers)
	}
	if cfg.Analysis.MaxViolations < 0 {
		return invalid("analysis.max_violations", "cannot be negative, got %d", cfg.Analysis.MaxViolations)
	}
	if cfg.Cache.MaxEntries < 0 {
		return invalid("cache.max_entries", "cannot be negative, got %d", cfg.Cache.MaxEntries)
	}
	if !knownFormat(cfg.Output.Format) {
		return invalid("output.format", "unknown format %q", cfg.Output.Format)
	}
	if _, err := types.ParseSeverity(cfg.Output.MinSeverity); err != nil {
		return invalid("output.min_severity", "%v", err)
	}
	if cfg.Watch.Debounce < 0 {
		return invalid("watch.debounce", "cannot be negative, got %s", cfg.Watch.Debounce)
	}

	_, err := rules.Compile(cfg.resolved, rules.WithProjectRoot(cfg.Root))
	return err
}

func knownFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

func invalid(key, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrConfigValid, "%s %s", key, fmt.Sprintf(format, args...)).WithDetail("key", key)
}
