package types

import (
	"slices"
	"sort"
	"time"
)

// Counts holds per-severity violation totals
type Counts struct {
	Error   int `json:"error"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
}

// Add increments the counter for s
func (c *Counts) Add(s Severity) {
	switch s {
	case SeverityError:
		c.Error++
	case SeverityWarning:
		c.Warning++
	case SeverityInfo:
		c.Info++
	}
}

// Total returns the number of counted violations
func (c Counts) Total() int {
	return c.Error + c.Warning + c.Info
}

// Of returns the count for a single severity
func (c Counts) Of(s Severity) int {
	switch s {
	case SeverityError:
		return c.Error
	case SeverityWarning:
		return c.Warning
	case SeverityInfo:
		return c.Info
	}
	return 0
}

// Report is the aggregated result of one analysis pass
type Report struct {
	Violations    []Violation `json:"violations"`
	Counts        Counts      `json:"counts"`
	FilesAnalyzed int         `json:"files_analyzed"`
	CacheHits     int         `json:"cache_hits"`
	Partial       []string    `json:"partial,omitempty"`
	Skipped       []string    `json:"skipped,omitempty"`
	Truncated     bool        `json:"truncated,omitempty"`
	Aborted       bool        `json:"aborted,omitempty"`

	// Withheld counts violations of files that finished after the cap was
	// reached. They are not listed but still decide the exit status.
	Withheld Counts `json:"withheld"`
	// Files lists every analyzed path, sorted.
	Files    []string      `json:"-"`
	Duration time.Duration `json:"-"`
}

// HasBlocking reports whether any violation has error severity, listed or
// withheld
func (r *Report) HasBlocking() bool {
	if r == nil {
		return false
	}
	return r.Counts.Error > 0 || r.Withheld.Error > 0
}

// Recount recomputes Counts from Violations
func (r *Report) Recount() {
	r.Counts = Counts{}
	for _, v := range r.Violations {
		r.Counts.Add(v.Severity)
	}
}

// Filter returns a copy of r keeping only violations at or above min.
// Counts are recomputed; file-level bookkeeping is kept as is.
func (r *Report) Filter(min Severity) *Report {
	out := *r
	out.Violations = make([]Violation, 0, len(r.Violations))
	for _, v := range r.Violations {
		if v.Severity.AtLeast(min) {
			out.Violations = append(out.Violations, v)
		}
	}
	out.Recount()
	return &out
}

// ByPath groups violations by file path, preserving report order
func (r *Report) ByPath() ([]string, map[string][]Violation) {
	var order []string
	groups := make(map[string][]Violation)
	for _, v := range r.Violations {
		if _, ok := groups[v.Path]; !ok {
			order = append(order, v.Path)
		}
		groups[v.Path] = append(groups[v.Path], v)
	}
	return order, groups
}

// Merge returns a copy of r in which everything recorded for files is
// replaced by next. It refreshes a full report after a subset of its files
// was analyzed again.
func (r *Report) Merge(next *Report, files []string) *Report {
	replaced := make(map[string]struct{}, len(files))
	for _, f := range files {
		replaced[f] = struct{}{}
	}
	keep := func(path string) bool {
		_, ok := replaced[path]
		return !ok
	}

	out := &Report{
		CacheHits: next.CacheHits,
		Truncated: next.Truncated,
		Withheld:  next.Withheld,
		Aborted:   next.Aborted,
		Duration:  next.Duration,
	}
	out.Files = mergePaths(r.Files, next.Files, keep)
	out.FilesAnalyzed = len(out.Files)
	for _, v := range r.Violations {
		if keep(v.Path) {
			out.Violations = append(out.Violations, v)
		}
	}
	out.Violations = append(out.Violations, next.Violations...)
	SortViolations(out.Violations)
	out.Recount()

	out.Partial = mergePaths(r.Partial, next.Partial, keep)
	out.Skipped = mergePaths(r.Skipped, next.Skipped, keep)
	return out
}

func mergePaths(prev, next []string, keep func(string) bool) []string {
	var out []string
	for _, p := range prev {
		if keep(p) {
			out = append(out, p)
		}
	}
	out = append(out, next...)
	sort.Strings(out)
	return slices.Compact(out)
}
