// Package cache stores per-file rule results keyed by content hash and rule
// set fingerprint, so unchanged files skip re-evaluation.
//
// An entry is only returned when both the content hash and the fingerprint
// match the lookup. A mismatching entry counts as a miss and is evicted on
// the spot, so a result computed under a stale rule set is never served.
//
// Entries live in a bounded LRU. Save and Load persist them as a versioned
// JSON snapshot written atomically (temp file then rename).
package cache
