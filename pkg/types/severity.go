package types

import (
	"fmt"
	"strings"
)

// Severity is the importance of a violation
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// AllSeverities lists the severities from most to least important
var AllSeverities = []Severity{SeverityError, SeverityWarning, SeverityInfo}

// Rank orders severities: info < warning < error. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severities
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// AtLeast reports whether s is as important as min
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a severity name case-insensitively
func ParseSeverity(value string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q (want error, warning or info)", value)
	}
	return s, nil
}
