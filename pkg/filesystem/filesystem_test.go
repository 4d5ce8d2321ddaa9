// pkg/filesystem/filesystem_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (t.TempDir), afero MemMapFs
// PURPOSE: Test both FS implementations honor the same contract

package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_Contract(t *testing.T) {
	impls := map[string]func(t *testing.T) (types.FS, string){
		"os": func(t *testing.T) (types.FS, string) {
			return filesystem.NewOS(), t.TempDir()
		},
		"memory": func(t *testing.T) (types.FS, string) {
			return filesystem.NewMemory(), "/work"
		},
	}

	for name, build := range impls {
		t.Run(name, func(t *testing.T) {
			fs, root := build(t)
			require.NoError(t, fs.MkdirAll(filepath.Join(root, "sub", "dir"), 0755))

			file := filepath.Join(root, "test.txt")
			require.NoError(t, fs.WriteFile(file, []byte("hello world"), 0644))

			content, err := fs.ReadFile(file)
			require.NoError(t, err)
			assert.Equal(t, "hello world", string(content))

			info, err := fs.Stat(file)
			require.NoError(t, err)
			assert.Equal(t, "test.txt", info.Name())

			entries, err := fs.ReadDir(root)
			require.NoError(t, err)
			assert.Len(t, entries, 2)

			_, err = fs.ReadFile(filepath.Join(root, "sub"))
			assert.Error(t, err, "reading a directory must fail")

			moved := filepath.Join(root, "moved.txt")
			require.NoError(t, fs.Rename(file, moved))
			_, err = fs.Stat(file)
			assert.True(t, os.IsNotExist(err))

			canonical, err := fs.EvalSymlinks(moved)
			require.NoError(t, err)
			assert.Equal(t, "moved.txt", filepath.Base(canonical))

			require.NoError(t, fs.Remove(moved))
		})
	}
}

func TestOS_EvalSymlinks(t *testing.T) {
	fs := filesystem.NewOS()
	root := t.TempDir()
	target := filepath.Join(root, "real")
	require.NoError(t, os.Mkdir(target, 0755))
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))

	resolved, err := fs.EvalSymlinks(link)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)

	info, err := fs.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}
