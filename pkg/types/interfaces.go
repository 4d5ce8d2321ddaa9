package types

import (
	"io/fs"
)

// FS is the filesystem interface required for codeguard operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error

	// Lstat does not follow symlinks. Implementations without symlink
	// support may fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)

	// EvalSymlinks returns the canonical form of path with every symlink
	// resolved. Implementations without symlink support return the cleaned path.
	EvalSymlinks(path string) (string, error)
}
