// Package version holds build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/fieldaim/internal/version.Version=v0.3.0
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for -version output and startup logs.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
