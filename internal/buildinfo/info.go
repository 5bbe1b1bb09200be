// Package buildinfo holds version metadata stamped in with -ldflags.
package buildinfo

import "fmt"

// Set via -ldflags "-X .../internal/buildinfo.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line shown by statementcore --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
