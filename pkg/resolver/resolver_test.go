// pkg/resolver/resolver_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem, real filesystem for symlinks
// PURPOSE: Test ordered override resolution, ignore files and traversal

package resolver_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/arthur-debert/codeguard/pkg/resolver"
	"github.com/arthur-debert/codeguard/pkg/testutil"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memTree(t *testing.T, files map[string]string) types.FS {
	t.Helper()
	return testutil.MemTree(t, "/repo", files)
}

func resolve(t *testing.T, fs types.FS, patterns []string, opts ...resolver.Option) []string {
	t.Helper()
	r, err := resolver.New(fs, patterns, opts...)
	require.NoError(t, err)
	res, err := r.Resolve([]string{"/repo"})
	require.NoError(t, err)
	require.Empty(t, res.RootErrors)

	var rel []string
	for _, f := range res.Files {
		p, err := filepath.Rel("/repo", f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(p))
	}
	return rel
}

func TestResolve_DirectoryOverride(t *testing.T) {
	fs := memTree(t, map[string]string{
		"target/keep.txt":  "k",
		"target/other.txt": "o",
		"src/main.go":      "package main",
	})

	files := resolve(t, fs, []string{"target/", "!target/keep.txt"})

	assert.Equal(t, []string{"src/main.go", "target/keep.txt"}, files)
}

func TestResolve_LastMatchWins(t *testing.T) {
	fs := memTree(t, map[string]string{
		"a.log":     "",
		"b.log":     "",
		"keep.log":  "",
		"main.go":   "",
		"docs/x.md": "",
	})

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "exclude_then_include",
			patterns: []string{"*.log", "!keep.log"},
			want:     []string{"docs/x.md", "keep.log", "main.go"},
		},
		{
			name:     "include_then_exclude",
			patterns: []string{"!keep.log", "*.log"},
			want:     []string{"docs/x.md", "main.go"},
		},
		{
			name:     "broad_reinclude_after_narrow_exclude",
			patterns: []string{"a.log", "!*.log"},
			want:     []string{"a.log", "b.log", "docs/x.md", "keep.log", "main.go"},
		},
		{
			name:     "no_patterns_includes_everything",
			patterns: nil,
			want:     []string{"a.log", "b.log", "docs/x.md", "keep.log", "main.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, fs, tt.patterns))
		})
	}
}

func TestResolve_DefaultExcludePolarity(t *testing.T) {
	fs := memTree(t, map[string]string{
		"pkg/a.go":     "",
		"pkg/a.txt":    "",
		"README.md":    "",
		"cmd/x/y.go":   "",
		"cmd/x/notes":  "",
		"deep/er/z.go": "",
	})

	files := resolve(t, fs, []string{"!**/*.go"}, resolver.WithDefaultPolarity(resolver.Exclude))

	assert.Equal(t, []string{"cmd/x/y.go", "deep/er/z.go", "pkg/a.go"}, files)
}

func TestResolve_PatternGrammar(t *testing.T) {
	fs := memTree(t, map[string]string{
		"build":            "a file named build",
		"lib/build/out.go": "",
		"lib/keep.go":      "",
		"gen/api.pb.go":    "",
		"x/gen/api.pb.go":  "",
		"data/a1.csv":      "",
		"data/b2.csv":      "",
	})

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "trailing_slash_matches_directories_only",
			patterns: []string{"build/"},
			want:     []string{"build", "data/a1.csv", "data/b2.csv", "gen/api.pb.go", "lib/keep.go", "x/gen/api.pb.go"},
		},
		{
			name:     "leading_slash_anchors",
			patterns: []string{"/gen/"},
			want:     []string{"build", "data/a1.csv", "data/b2.csv", "lib/build/out.go", "lib/keep.go", "x/gen/api.pb.go"},
		},
		{
			name:     "double_star_crosses_segments",
			patterns: []string{"**/*.pb.go"},
			want:     []string{"build", "data/a1.csv", "data/b2.csv", "lib/build/out.go", "lib/keep.go"},
		},
		{
			name:     "character_class_and_question_mark",
			patterns: []string{"data/[a]?.csv"},
			want:     []string{"build", "data/b2.csv", "gen/api.pb.go", "lib/build/out.go", "lib/keep.go", "x/gen/api.pb.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, fs, tt.patterns))
		})
	}
}

func TestResolve_IgnoreFiles(t *testing.T) {
	fs := memTree(t, map[string]string{
		".codeguardignore":            "*.gen.go\n# comment\n\n[invalid\n",
		"a.gen.go":                    "",
		"a.go":                        "",
		"pkg/.codeguardignore":        "!special.gen.go\n",
		"pkg/special.gen.go":          "",
		"pkg/other.gen.go":            "",
		"pkg/inner/.codeguardignore":  "*\n!*.go\n",
		"pkg/inner/keep.go":           "",
		"pkg/inner/drop.txt":          "",
		"sibling/special.gen.go":      "",
		"sibling/.codeguardignore.md": "not an ignore file",
	})

	files := resolve(t, fs, nil)

	assert.Equal(t, []string{
		"a.go",
		"pkg/inner/keep.go",
		"pkg/special.gen.go",
		"sibling/.codeguardignore.md",
	}, files)
}

func TestResolve_ConfiguredPatternsComeFirst(t *testing.T) {
	fs := memTree(t, map[string]string{
		".codeguardignore":   "!vendor/mod/keep.go\n",
		"vendor/mod/keep.go": "",
		"vendor/mod/drop.go": "",
	})

	files := resolve(t, fs, []string{"vendor/"})

	assert.Equal(t, []string{"vendor/mod/keep.go"}, files)
}

func TestResolve_NestedIgnoreFileReincludes(t *testing.T) {
	fs := memTree(t, map[string]string{
		"build/.codeguardignore": "!keep.go\n",
		"build/keep.go":          "",
		"build/drop.go":          "",
		"build/deep/keep.go":     "",
		"out/keep.go":            "",
	})
	patterns := []string{"build/", "out/"}

	files := resolve(t, fs, patterns)

	assert.Equal(t, []string{"build/deep/keep.go", "build/keep.go"}, files)

	r, err := resolver.New(fs, patterns, resolver.WithIgnoreFile(".codeguardignore"))
	require.NoError(t, err)
	assert.True(t, r.Includes("/repo", "/repo/build/keep.go"))
	assert.True(t, r.Includes("/repo", "/repo/build/deep/keep.go"))
	assert.False(t, r.Includes("/repo", "/repo/build/drop.go"))
	assert.False(t, r.Includes("/repo", "/repo/out/keep.go"))
}

func TestResolve_DisabledIgnoreFile(t *testing.T) {
	fs := memTree(t, map[string]string{
		".codeguardignore": "*.go\n",
		"a.go":             "",
	})

	files := resolve(t, fs, nil, resolver.WithIgnoreFile(""))

	assert.Equal(t, []string{".codeguardignore", "a.go"}, files)
}

func TestResolve_RootErrorsAreScoped(t *testing.T) {
	fs := memTree(t, map[string]string{"a.go": ""})
	r, err := resolver.New(fs, nil)
	require.NoError(t, err)

	res, err := r.Resolve([]string{"/missing", "/repo", "/repo/a.go"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/repo/a.go"}, res.Files, "overlapping roots are deduplicated")
	require.Len(t, res.RootErrors, 1)
	assert.True(t, errors.IsErrorCode(res.RootErrors[0], errors.ErrPathResolve))
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := resolver.New(filesystem.NewMemory(), []string{"src/", "[unclosed"})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestResolve_SymlinkLoop(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "x.go"), []byte("package b"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "a", "b", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	r, err := resolver.New(filesystem.NewOS(), nil)
	require.NoError(t, err)

	res, err := r.Resolve([]string{root})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.ToSlash(filepath.Join(root, "a", "b", "x.go"))}, res.Files)
}

func TestIncludes_AgreesWithResolve(t *testing.T) {
	files := map[string]string{
		".codeguardignore":        "*.tmp\n",
		"a.go":                    "",
		"a.tmp":                   "",
		"target/keep.txt":         "",
		"target/other.txt":        "",
		"pkg/.codeguardignore":    "!b.tmp\n",
		"pkg/b.tmp":               "",
		"pkg/c.tmp":               "",
		"out/.codeguardignore":    "!never.go\n",
		"out/never.go":            "",
		"pkg/deep/nested/file.go": "",
	}
	fs := memTree(t, files)
	patterns := []string{"target/", "!target/keep.txt"}

	included := map[string]bool{}
	for _, f := range resolve(t, fs, patterns) {
		included[f] = true
	}

	r, err := resolver.New(fs, patterns)
	require.NoError(t, err)
	for name := range files {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, included[name], r.Includes("/repo", filepath.Join("/repo", name)))
		})
	}

	assert.False(t, r.Includes("/repo", "/elsewhere/a.go"))
}

func TestDecide_BackwardScan(t *testing.T) {
	patterns, err := resolver.ParsePatterns([]string{"*.go", "!main.go", "cmd/"})
	require.NoError(t, err)

	tests := []struct {
		rel  string
		want resolver.Polarity
	}{
		{"lib.go", resolver.Exclude},
		{"main.go", resolver.Include},
		{"cmd/main.go", resolver.Exclude},
		{"README.md", resolver.Include},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Decide(patterns, tt.rel, false, resolver.Include))
		})
	}
}
