// Package buildinfo carries release metadata stamped in with -ldflags -X.
package buildinfo

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the short git hash of the build.
	Commit = "none"
	// Date is the build time in RFC 3339.
	Date = "unknown"
)
