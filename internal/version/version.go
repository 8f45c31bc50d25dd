// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/banshee-data/hitcluster/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	// Version is the release tag of the hitcluster build
	Version = "dev"
	// GitSHA is the commit the binary was built from
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for the -version flag.
func String() string {
	return fmt.Sprintf("hitcluster %s (%s, built %s)", Version, GitSHA, BuildTime)
}
