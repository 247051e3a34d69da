// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies osvector in outbound requests to OpenSearch.
func UserAgent() string {
	return "osvector/" + Version
}
