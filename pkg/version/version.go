// Package version holds build-time identifiers stamped by the release
// pipeline's -ldflags; the defaults below are what a source checkout
// or a plain `go build` reports.
package version

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)
