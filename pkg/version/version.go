// Package version exposes build information stamped in at link time.
package version

import "runtime/debug"

// Build information, set with -ldflags "-X github.com/Sumatoshi-tech/hlconv/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}

// Module returns the main module version recorded by the Go toolchain, for
// binaries installed with go install.
func Module() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return Version
	}

	return info.Main.Version
}
