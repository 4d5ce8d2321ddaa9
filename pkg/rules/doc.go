// Package rules binds matchers to configured pattern rules and evaluates
// every enabled rule against one file.
//
// # Rules
//
// A PatternRule names a matcher kind and its payload, a severity, a message
// template and optional exclusions:
//
//	[[rules]]
//	id = "todo_comments"
//	kind = "literal"
//	severity = "error"
//	pattern = '\b(TODO|FIXME)\b'
//	message = "Unresolved {match} marker"
//
// Templates substitute {match}, {rule}, {file}, {line}, {column} and any
// attribute the matcher exposes, such as {name} or {callee}.
//
// # Exclusions
//
// Matches are dropped before they become violations when the rule excludes
// test code (in_tests), generated files (in_generated), paths matching
// file_patterns, or code carrying one of the listed annotations, for example
// a //codeguard:allow directive on the enclosing function.
//
// # Fingerprint
//
// Compile derives a fingerprint from the canonical encoding of every rule and
// the matcher kind versions. Any change to the rule set changes the
// fingerprint, which invalidates every cached result.
package rules
