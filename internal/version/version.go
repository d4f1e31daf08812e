// Package version holds build metadata injected at link time.
package version

var (
	// Version is the semantic version, set via -ldflags.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = ""
	// BuildDate is the build timestamp.
	BuildDate = ""
)
