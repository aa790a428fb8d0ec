package build

import "fmt"

// Set at link time:
//
//	go build -ldflags "-X github.com/rohmanhakim/csp-hasher/internal/build.Version=1.0.0 ..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// Summary is the text printed by --version.
// Format: "Version+Commit (built BuildTime)"
func Summary() string {
	return fmt.Sprintf("%s (built %s)", FullVersion(), BuildTime)
}
