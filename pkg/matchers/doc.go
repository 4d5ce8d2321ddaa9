// Package matchers implements the three pattern matcher kinds rules bind to.
//
//   - literal: a regular expression evaluated per line or across the whole
//     file, with the RE2 engine or an extended engine supporting look-around
//     and back-references
//   - structural: a declarative shape tested against each node of the
//     structural tree in a single walk
//   - semantic: an import-boundary table flagging imports that cross a
//     forbidden module prefix
//
// Every kind registers a Factory and a version; the version feeds the rule
// set fingerprint so a matcher change invalidates cached results.
package matchers
