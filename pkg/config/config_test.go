// pkg/config/config_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (t.TempDir), environment
// PURPOSE: Test layered loading, rule merging and validation

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/codeguard/pkg/config"
	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/resolver"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/testutil"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, name, content string) string {
	t.Helper()
	return testutil.TempTree(t, map[string]string{name: content})
}

func ruleByID(t *testing.T, cfg *config.Config, id string) rules.PatternRule {
	t.Helper()
	for _, r := range cfg.ResolvedRules() {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("rule %q not found", id)
	return rules.PatternRule{}
}

func TestDefault(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	assert.Contains(t, cfg.Paths.Patterns, ".git/")
	assert.Equal(t, ".codeguardignore", cfg.Paths.IgnoreFile)
	assert.Equal(t, resolver.Include, cfg.DefaultPolarity())
	assert.True(t, cfg.Analysis.Parallel)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "auto", cfg.Output.Format)
	assert.Equal(t, types.SeverityInfo, cfg.MinSeverity())
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	assert.Len(t, cfg.ResolvedRules(), len(rules.Defaults()))
	assert.Empty(t, cfg.Sources)

	engine, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, 4, engine.EnabledCount())
}

func TestLoad_ProjectTOML(t *testing.T) {
	root := writeProject(t, ".codeguard.toml", `
[paths]
patterns = ["target/", "!target/keep.txt"]
default = "exclude"

[analysis]
workers = 4
fail_fast = true

[watch]
debounce = "1s"

[[rules]]
id = "todo_comments"
kind = "literal"
severity = "Warning"
pattern = '\bTODO\b'

[[rules]]
id = "no_print"
kind = "literal"
severity = "error"
pattern = 'fmt\.Println'
case_sensitive = false
[rules.exclude]
in_tests = true
file_patterns = ["cmd/**"]

[overrides.temporary_markers]
enabled = false
`)

	cfg, err := config.Load(root, config.LoadOptions{SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, ".codeguard.toml")}, cfg.Sources)
	// Project patterns follow the defaults so they win.
	n := len(cfg.Paths.Patterns)
	assert.Equal(t, []string{"target/", "!target/keep.txt"}, cfg.Paths.Patterns[n-2:])
	assert.Equal(t, resolver.Exclude, cfg.DefaultPolarity())
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.True(t, cfg.AnalyzerOptions().FailFast)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)

	todo := ruleByID(t, cfg, "todo_comments")
	assert.Equal(t, types.SeverityWarning, todo.Severity)
	assert.Equal(t, `\bTODO\b`, todo.Pattern)
	assert.True(t, todo.Enabled)

	custom := ruleByID(t, cfg, "no_print")
	assert.False(t, custom.CaseSensitive)
	assert.True(t, custom.Exclude.InTests)
	assert.Equal(t, []string{"cmd/**"}, custom.Exclude.FilePatterns)

	assert.False(t, ruleByID(t, cfg, "temporary_markers").Enabled)
	assert.Len(t, cfg.ResolvedRules(), len(rules.Defaults())+1)
}

func TestLoad_ProjectYAML(t *testing.T) {
	root := writeProject(t, ".codeguard.yaml", `
output:
  format: json
  min_severity: warning
rules:
  - id: layering
    kind: semantic
    severity: error
    source_root: internal
    boundaries:
      api:
        - internal/storage
`)

	cfg, err := config.Load(root, config.LoadOptions{SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, types.SeverityWarning, cfg.MinSeverity())
	layering := ruleByID(t, cfg, "layering")
	assert.Equal(t, map[string][]string{"api": {"internal/storage"}}, layering.Boundaries)
}

func TestLoad_FileLookupOrder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "codeguard.toml"), []byte("[analysis]\nworkers = 2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".codeguard.yml"), []byte("analysis:\n  workers: 9\n"), 0644))

	cfg, err := config.Load(root, config.LoadOptions{SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Analysis.Workers)

	explicit, err := config.Load(root, config.LoadOptions{SkipEnv: true, File: filepath.Join(root, ".codeguard.yml")})
	require.NoError(t, err)
	assert.Equal(t, 9, explicit.Analysis.Workers)
}

func TestLoad_Environment(t *testing.T) {
	root := writeProject(t, ".codeguard.toml", "[analysis]\nworkers = 2\n")
	t.Setenv("CODEGUARD_ANALYSIS_WORKERS", "6")
	t.Setenv("CODEGUARD_ANALYSIS_MAX_VIOLATIONS", "10")
	t.Setenv("CODEGUARD_PATHS_PATTERNS", "build/,dist/")

	cfg, err := config.Load(root, config.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Analysis.Workers)
	assert.Equal(t, 10, cfg.Analysis.MaxViolations)
	assert.Equal(t, []string{"build/", "dist/"}, cfg.Paths.Patterns)
	assert.Contains(t, cfg.Sources, "env")
}

func TestLoad_Categories(t *testing.T) {
	root := writeProject(t, ".codeguard.toml", `
[categories.incomplete]
severity = "info"

[overrides.unimplemented_calls]
severity = "error"
`)

	cfg, err := config.Load(root, config.LoadOptions{SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, types.SeverityInfo, ruleByID(t, cfg, "empty_success_return").Severity)
	assert.Equal(t, types.SeverityError, ruleByID(t, cfg, "unimplemented_calls").Severity, "overrides win over categories")
	assert.Equal(t, types.SeverityError, ruleByID(t, cfg, "todo_comments").Severity)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.ErrorCode
	}{
		{"malformed_toml", ".codeguard.toml", "[paths\n", errors.ErrConfigParse},
		{"bad_default_polarity", ".codeguard.toml", "[paths]\ndefault = \"maybe\"\n", errors.ErrConfigValid},
		{"bad_path_pattern", ".codeguard.toml", "[paths]\npatterns = [\"[\"]\n", errors.ErrConfigValid},
		{"negative_workers", ".codeguard.toml", "[analysis]\nworkers = -1\n", errors.ErrConfigValid},
		{"unknown_format", ".codeguard.toml", "[output]\nformat = \"xml\"\n", errors.ErrConfigValid},
		{"bad_min_severity", ".codeguard.toml", "[output]\nmin_severity = \"fatal\"\n", errors.ErrConfigValid},
		{"rule_without_id", ".codeguard.toml", "[[rules]]\nkind = \"literal\"\nseverity = \"error\"\npattern = \"x\"\n", errors.ErrConfigValid},
		{"rule_bad_severity", ".codeguard.toml", "[[rules]]\nid = \"x\"\nkind = \"literal\"\nseverity = \"loud\"\npattern = \"x\"\n", errors.ErrConfigValid},
		{"rule_bad_regex", ".codeguard.toml", "[[rules]]\nid = \"x\"\nkind = \"literal\"\nseverity = \"error\"\npattern = \"(\"\n", errors.ErrPatternCompile},
		{"unknown_override", ".codeguard.toml", "[overrides.nope]\nenabled = false\n", errors.ErrConfigValid},
		{"reserved_rule_id", ".codeguard.toml", "[[rules]]\nid = \"codeguard/x\"\nkind = \"literal\"\nseverity = \"error\"\npattern = \"x\"\n", errors.ErrConfigValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeProject(t, tt.file, tt.content)
			_, err := config.Load(root, config.LoadOptions{SkipEnv: true})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err), err.Error())
			assert.True(t, errors.IsFatal(err))
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(t.TempDir(), config.LoadOptions{SkipEnv: true, File: "/does/not/exist.toml"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestCacheFile(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Root = "/work/project"

	dir := t.TempDir()
	t.Setenv("CODEGUARD_CACHE_DIR", dir)
	assert.Equal(t, dir, filepath.Dir(cfg.CacheFile()))

	cfg.Cache.Dir = "/custom"
	assert.Equal(t, "/custom", filepath.Dir(cfg.CacheFile()))
}

func TestEncode(t *testing.T) {
	root := writeProject(t, ".codeguard.toml", "[overrides.todo_comments]\nseverity = \"warning\"\n")
	cfg, err := config.Load(root, config.LoadOptions{SkipEnv: true})
	require.NoError(t, err)

	for _, format := range []string{"toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			data, err := config.Encode(cfg, format)
			require.NoError(t, err)
			assert.Contains(t, string(data), "todo_comments")
			assert.Contains(t, string(data), "ignore_file")
			assert.NotContains(t, string(data), "overrides")
		})
	}

	_, err = config.Encode(cfg, "ini")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestGenerateConfigContent(t *testing.T) {
	content := config.GenerateConfigContent()
	assert.Contains(t, content, "[paths]")
	assert.Contains(t, content, "# patterns = ")
	assert.Contains(t, content, "# [[rules]]")

	// A freshly generated file loads to the defaults.
	root := writeProject(t, ".codeguard.toml", content)
	cfg, err := config.Load(root, config.LoadOptions{SkipEnv: true})
	require.NoError(t, err)
	defaults, err := config.Default()
	require.NoError(t, err)
	assert.Equal(t, defaults.Paths, cfg.Paths)
	assert.Equal(t, defaults.ResolvedRules(), cfg.ResolvedRules())
}
