// Package version carries build metadata set through ldflags:
//
//	go build -ldflags "-X github.com/MarcosLancellotti2225/HTMLgenerator/internal/version.Version=v1.2.0"
package version

import "fmt"

// Version is the released version of htmlgen.
var Version = "dev"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("htmlgen %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
