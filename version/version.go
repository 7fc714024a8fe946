// Package version exposes build information for the client library.
//
// Version and commit are set at release time via -ldflags:
//
//	go build -ldflags "-X github.com/qualisystems/cloudshell-rest-go/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the library version, "dev" for unreleased builds.
	Version = "dev"
	// GitCommit is the commit the build was produced from.
	GitCommit = ""
)

// String returns a human-readable version string.
func String() string {
	if GitCommit != "" {
		return fmt.Sprintf("%s (%s)", Version, GitCommit)
	}
	return Version
}

// UserAgent returns the User-Agent value sent with every API request.
func UserAgent() string {
	return fmt.Sprintf("cloudshell-rest-go/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)
}
