package types

import (
	"sort"
)

// Rule ids reserved for diagnostics produced by codeguard itself
const (
	DiagnosticPartialAnalysis = "codeguard/partial-analysis"
	DiagnosticFileRead        = "codeguard/file-read"
)

// Violation is a single reported rule match
type Violation struct {
	RuleID   string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Message  string   `json:"message"`
	Context  string   `json:"context,omitempty"`
}

// ViolationKey identifies a violation for deduplication
type ViolationKey struct {
	RuleID string
	Path   string
	Line   int
	Column int
	// Message is only set for diagnostics, which share one rule id.
	Message string
}

// Key returns the deduplication key of v
func (v Violation) Key() ViolationKey {
	k := ViolationKey{RuleID: v.RuleID, Path: v.Path, Line: v.Line, Column: v.Column}
	if v.IsDiagnostic() {
		k.Message = v.Message
	}
	return k
}

// IsDiagnostic reports whether v was produced by codeguard rather than a rule
func (v Violation) IsDiagnostic() bool {
	return v.RuleID == DiagnosticPartialAnalysis || v.RuleID == DiagnosticFileRead
}

// ViolationLess is the report order: path, line, column, then rule id and message
func ViolationLess(a, b Violation) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	if a.Column != b.Column {
		return a.Column < b.Column
	}
	if a.RuleID != b.RuleID {
		return a.RuleID < b.RuleID
	}
	return a.Message < b.Message
}

// SortViolations sorts in place into report order
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		return ViolationLess(vs[i], vs[j])
	})
}

// DedupViolations drops later duplicates of the same key, keeping order
func DedupViolations(vs []Violation) []Violation {
	if len(vs) < 2 {
		return vs
	}
	seen := make(map[ViolationKey]struct{}, len(vs))
	out := vs[:0]
	for _, v := range vs {
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
