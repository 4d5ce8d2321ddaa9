package cache

import (
	"sync/atomic"

	"github.com/arthur-debert/codeguard/pkg/logging"
	"github.com/arthur-debert/codeguard/pkg/rules"
	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/arthur-debert/codeguard/pkg/unit"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultMaxEntries bounds the number of files kept in memory
const DefaultMaxEntries = 100_000

// Entry is the stored result for one path
type Entry struct {
	Hash        string       `json:"hash"`
	Fingerprint string       `json:"fingerprint"`
	Result      rules.Result `json:"result"`
}

// Stats reports cache effectiveness without exposing storage layout
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// HitRate returns hits over lookups, or 0 without lookups
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a content-addressed result store safe for concurrent use
type Cache struct {
	entries *lru.Cache[string, Entry]
	hits    atomic.Int64
	misses  atomic.Int64
	logger  zerolog.Logger
}

// New creates an empty cache holding at most maxEntries files. A
// non-positive size uses DefaultMaxEntries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New[string, Entry](maxEntries)
	return &Cache{
		entries: entries,
		logger:  logging.GetLogger("cache"),
	}
}

// HashContent returns the hex SHA-256 digest used as content hash
func HashContent(content []byte) string {
	return unit.HashContent(content)
}

// Lookup returns the stored result for path when both hash and fingerprint
// match. A stale entry is evicted and reported as a miss.
func (c *Cache) Lookup(path, hash, fingerprint string) (rules.Result, bool) {
	entry, ok := c.entries.Get(path)
	if !ok {
		c.misses.Add(1)
		return rules.Result{}, false
	}
	if entry.Hash != hash || entry.Fingerprint != fingerprint {
		c.entries.Remove(path)
		c.misses.Add(1)
		c.logger.Trace().
			Str("path", path).
			Bool("contentChanged", entry.Hash != hash).
			Bool("rulesChanged", entry.Fingerprint != fingerprint).
			Msg("Evicted stale cache entry")
		return rules.Result{}, false
	}
	c.hits.Add(1)
	return copyResult(entry.Result), true
}

// Store records the result computed for path under hash and fingerprint
func (c *Cache) Store(path, hash, fingerprint string, result rules.Result) {
	c.entries.Add(path, Entry{
		Hash:        hash,
		Fingerprint: fingerprint,
		Result:      copyResult(result),
	})
}

// Stats returns a snapshot of the counters
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entries.Len(),
	}
}

// Prune removes every entry whose path keep rejects and returns how many
// were removed.
func (c *Cache) Prune(keep func(path string) bool) int {
	removed := 0
	for _, path := range c.entries.Keys() {
		if !keep(path) {
			c.entries.Remove(path)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug().Int("removed", removed).Msg("Pruned cache entries")
	}
	return removed
}

// Clear drops every entry and resets the counters
func (c *Cache) Clear() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

func copyResult(r rules.Result) rules.Result {
	out := rules.Result{Partial: r.Partial}
	if len(r.Violations) > 0 {
		out.Violations = append([]types.Violation(nil), r.Violations...)
	}
	return out
}
