// Package analyzer runs a compiled rule set over a list of files with a
// fixed pool of workers and assembles a deterministic report.
//
// Each file is read, hashed and looked up in the cache. On a miss a
// unit.FileUnit is built and evaluated by the rules engine, and the result
// is stored. A single collector accepts whole-file violation sets, so a
// file is always reported completely or not at all, and the final report is
// sorted independently of completion order.
//
// Stop conditions (fail-fast, the violation cap and context cancellation)
// are checked between files only. Files already in flight finish.
package analyzer
