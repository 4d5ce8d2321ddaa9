// Package resolver computes the ordered set of files to analyze from root
// paths, ordered include/exclude glob patterns and per-directory ignore files.
//
// # Pattern Grammar
//
// Patterns follow ignore-file conventions:
//
//   - a leading "!" makes the pattern an include (override); otherwise it excludes
//   - a trailing "/" restricts the pattern to directories
//   - a leading "/" anchors the pattern to its base directory
//   - a pattern without "/" matches the name of the path or of any ancestor
//   - "*" matches within a segment, "**" across segments, "?" one character,
//     and "[...]" a character class
//
// # Override Law
//
// Patterns are kept in order and the last pattern matching a path decides its
// fate, regardless of earlier entries. Each directory's ignore file
// (.codeguardignore by default) is appended to the patterns inherited from its
// ancestors, so deeper files override shallower ones. A path no pattern
// matches is included.
//
// A file is also matched by a pattern matching one of its ancestor
// directories, which is how "target/" excludes everything below target while
// a later "!target/keep.txt" re-includes a single file. Excluded directories
// are only pruned when no include pattern is in effect.
package resolver
