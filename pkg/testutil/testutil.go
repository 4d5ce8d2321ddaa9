package testutil

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/codeguard/pkg/filesystem"
	"github.com/arthur-debert/codeguard/pkg/types"
)

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", p, err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", p, err)
	}
	return p
}

// CreateTree writes files below dir and returns their paths, sorted
func CreateTree(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	var paths []string
	for _, name := range sortedNames(files) {
		paths = append(paths, CreateFile(t, dir, name, files[name]))
	}
	return paths
}

// TempTree writes files into a fresh temporary directory and returns it
func TempTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	CreateTree(t, dir, files)
	return dir
}

// MemTree returns an in-memory filesystem holding files below root
func MemTree(t *testing.T, root string, files map[string]string) types.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	for _, name := range sortedNames(files) {
		full := path.Join(root, name)
		if err := fs.MkdirAll(path.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create parent directories for %s: %v", full, err)
		}
		if err := fs.WriteFile(full, []byte(files[name]), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", full, err)
		}
	}
	return fs
}

func sortedNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
