// Package buildinfo exposes version information stamped at build time
// via -ldflags.
package buildinfo

import "fmt"

var (
	// Version is the release version, "dev" for untagged builds.
	Version = "dev"
	// Commit is the short git commit hash.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the version line printed by the version command.
func String() string {
	return fmt.Sprintf("tfmodels %s (commit %s, built %s)", Version, Commit, Date)
}
