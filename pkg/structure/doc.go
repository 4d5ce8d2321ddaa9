// Package structure builds the simplified syntax tree that structural and
// semantic rules match against.
//
// The tree uses a closed set of node kinds (file, import, function, return,
// call, statement, annotation). Each node carries its kind, a source span,
// string attributes and its children. Nodes inside test files or test
// functions are tagged TestOnly, and directive comments on a function
// (such as //codeguard:allow) are inherited by everything inside it.
//
// Only Go sources have a structural representation; Supported reports
// whether a path qualifies.
package structure
