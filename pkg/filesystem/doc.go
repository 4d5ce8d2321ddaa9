// Package filesystem provides the types.FS implementations codeguard runs on.
//
// Both are afero adapters: NewOS wraps the operating system filesystem and
// NewMemory an in-memory tree used by tests. Reading a directory as a file
// fails the same way on both.
package filesystem
