package version

import "fmt"

// Build information set by ldflags:
// -X github.com/arthur-debert/codeguard/internal/version.Version={{.Version}}
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version with the abbreviated commit when known
func Short() string {
	if Commit == "" || Commit == "unknown" {
		return Version
	}
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}
