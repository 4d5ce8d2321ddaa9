// Package unit holds the per-file analysis unit shared by every rule that
// evaluates a file during one pass.
package unit

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/arthur-debert/codeguard/pkg/internal/hashutil"
	"github.com/arthur-debert/codeguard/pkg/structure"
)

// FileUnit is one file under analysis. The structural tree is built lazily,
// at most once, and shared by all structural and semantic rules.
type FileUnit struct {
	Path    string
	Content []byte
	Hash    string

	once   sync.Once
	tree   *structure.Tree
	err    error
	builds atomic.Int32

	linesOnce sync.Once
	lines     []string
}

// New creates a unit for path. An empty hash is computed from content.
func New(path string, content []byte, hash string) *FileUnit {
	if hash == "" {
		hash = HashContent(content)
	}
	return &FileUnit{Path: path, Content: content, Hash: hash}
}

// HashContent returns the hex SHA-256 digest of content
func HashContent(content []byte) string {
	return hashutil.Sum(content)
}

// HasStructure reports whether a structural representation applies to the file
func (u *FileUnit) HasStructure() bool {
	return structure.Supported(u.Path)
}

// Structure returns the structural tree, building it on first use
func (u *FileUnit) Structure() (*structure.Tree, error) {
	u.once.Do(func() {
		u.builds.Add(1)
		u.tree, u.err = structure.Build(u.Path, u.Content)
	})
	return u.tree, u.err
}

// Builds returns how many times the structural tree was built
func (u *FileUnit) Builds() int {
	return int(u.builds.Load())
}

// Lines returns the content split into lines, computed once
func (u *FileUnit) Lines() []string {
	u.linesOnce.Do(func() {
		u.lines = SplitLines(u.Content)
	})
	return u.lines
}

// Line returns the 1-based line n without its terminator, or ""
func (u *FileUnit) Line(n int) string {
	lines := u.Lines()
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// SplitLines splits content on \n, dropping a trailing \r on each line
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	raw := bytes.Split(content, []byte("\n"))
	if len(raw[len(raw)-1]) == 0 {
		raw = raw[:len(raw)-1]
	}
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(bytes.TrimSuffix(l, []byte("\r")))
	}
	return lines
}

// Position converts a byte offset into a 1-based line and column
func Position(content []byte, offset int) (line, column int) {
	if offset > len(content) {
		offset = len(content)
	}
	prefix := content[:offset]
	line = bytes.Count(prefix, []byte("\n")) + 1
	column = offset - (bytes.LastIndexByte(prefix, '\n') + 1) + 1
	return line, column
}
