// Package paths provides the on-disk locations codeguard uses outside the
// scanned tree.
//
// # Environment Variables
//
//   - CODEGUARD_CACHE_DIR: Override the cache directory (default: $XDG_CACHE_HOME/codeguard)
//   - CODEGUARD_STATE_DIR: Override the state directory (default: $XDG_STATE_HOME/codeguard)
//
// Cache snapshots are stored per project root, keyed by a short digest of the
// absolute root path.
package paths
