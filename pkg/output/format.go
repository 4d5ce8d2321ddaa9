package output

import (
	"os"
	"strings"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks text, styled when writing to a color terminal
	FormatAuto Format = iota
	// FormatText renders a human-readable report grouped by file
	FormatText
	// FormatJSON renders machine-readable JSON output
	FormatJSON
	// FormatJUnit renders JUnit XML for CI test reporters
	FormatJUnit
	// FormatGitHub renders GitHub Actions workflow commands
	FormatGitHub
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatJUnit:
		return "junit"
	case FormatGitHub:
		return "github"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "junit", "xml":
		return FormatJUnit, nil
	case "github", "gha":
		return FormatGitHub, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q (want auto, text, json, junit or github)", s)
	}
}

// DetectColor reports whether output should carry ANSI styling
func DetectColor(output *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return false
	}

	return termenv.NewOutput(output).ColorProfile() != termenv.Ascii
}

// Resolve turns FormatAuto into a concrete format. Inside GitHub Actions the
// auto format emits workflow annotations.
func Resolve(f Format) Format {
	if f != FormatAuto {
		return f
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return FormatGitHub
	}
	return FormatText
}
