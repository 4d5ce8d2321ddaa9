// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables
// PURPOSE: Test cache/state directory resolution and snapshot naming

package paths_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/codeguard/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func TestCacheDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvCacheDir, dir)

	assert.Equal(t, dir, paths.CacheDir())
}

func TestStateDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvStateDir, dir)

	assert.Equal(t, dir, paths.StateDir())
	assert.Equal(t, filepath.Join(dir, paths.LogFileName), paths.LogFilePath())
}

func TestCacheFileFor(t *testing.T) {
	t.Setenv(paths.EnvCacheDir, "/tmp/cg-cache")

	t.Run("stable_for_same_root", func(t *testing.T) {
		assert.Equal(t, paths.CacheFileFor("/work/project"), paths.CacheFileFor("/work/project/"))
	})

	t.Run("distinct_roots_distinct_files", func(t *testing.T) {
		a := paths.CacheFileFor("/work/a/project")
		b := paths.CacheFileFor("/work/b/project")
		assert.NotEqual(t, a, b)
		assert.True(t, strings.HasPrefix(filepath.Base(a), "project-"))
		assert.Equal(t, ".json", filepath.Ext(a))
	})
}
