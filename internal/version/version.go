// Package version tracks the engine version and checks strategy
// compatibility against it.
package version

// Version is the engine version. Set at build time via ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-backtest/internal/version.Version=0.3.0"
// The value "main" marks a development build.
var Version = "v0.3.0"

// GetVersion returns the engine version.
func GetVersion() string {
	return Version
}
