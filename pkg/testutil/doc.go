// Package testutil builds source trees for tests, on disk or in memory.
//
// Trees are described as a map from slash-separated relative paths to file
// contents. Parent directories are created as needed.
package testutil
