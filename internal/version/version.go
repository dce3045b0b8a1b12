// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent returns the User-Agent header value for a component,
// e.g. "edsapi-server/1.2.0".
func UserAgent(component string) string {
	return "edsapi-" + component + "/" + Version
}

// String returns the version with commit and build date, for --version output.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
