package analyzer

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/arthur-debert/codeguard/pkg/types"
)

// collector accepts whole-file results from workers. The stop flag is read
// without the lock between files.
type collector struct {
	mu   sync.Mutex
	opts Options
	rep  types.Report
	stop atomic.Bool
}

func newCollector(opts Options) *collector {
	return &collector{opts: opts}
}

func (c *collector) stopped() bool {
	return c.stop.Load()
}

func (c *collector) accept(fr fileResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vs := fr.result.Violations
	if c.full() {
		// In-flight files finishing after the cap are not listed but still
		// count toward the exit status.
		for _, v := range vs {
			c.rep.Withheld.Add(v.Severity)
		}
		return
	}

	c.rep.FilesAnalyzed++
	c.rep.Files = append(c.rep.Files, fr.path)
	if fr.cacheHit {
		c.rep.CacheHits++
	}
	if fr.skipped {
		c.rep.Skipped = append(c.rep.Skipped, fr.path)
	}
	if fr.result.Partial {
		c.rep.Partial = append(c.rep.Partial, fr.path)
	}
	c.rep.Violations = append(c.rep.Violations, vs...)

	if c.full() {
		c.rep.Truncated = true
		c.stop.Store(true)
	}
	if c.opts.FailFast && hasError(vs) {
		c.rep.Aborted = true
		c.stop.Store(true)
	}
}

// full reports whether the violation cap is reached. A file accepted below
// the cap is kept whole, so the list may end above it.
func (c *collector) full() bool {
	limit := c.opts.MaxViolations
	return limit > 0 && len(c.rep.Violations) >= limit
}

// report returns the assembled report in deterministic order
func (c *collector) report() *types.Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	rep := c.rep
	rep.Violations = append([]types.Violation(nil), c.rep.Violations...)
	types.SortViolations(rep.Violations)
	rep.Recount()
	rep.Skipped = sortedCopy(c.rep.Skipped)
	rep.Partial = sortedCopy(c.rep.Partial)
	rep.Files = sortedCopy(c.rep.Files)
	return &rep
}

func hasError(vs []types.Violation) bool {
	for _, v := range vs {
		if v.Severity == types.SeverityError {
			return true
		}
	}
	return false
}

func sortedCopy(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
