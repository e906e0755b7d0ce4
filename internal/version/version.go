// Package version exposes build metadata injected at link time.
package version

var (
	// Version is the semantic version of the build.
	Version = "0.3.0"
	// Commit is the git commit the binary was built from.
	Commit = ""
	// BuildDate is the UTC build timestamp.
	BuildDate = ""
)
