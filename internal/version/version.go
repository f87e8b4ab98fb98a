// Package version reports the build version, set at link time:
//
//	go build -ldflags "-X github.com/ramonehamilton/pokemon-catcher/internal/version.Version=v0.3.0 \
//	  -X github.com/ramonehamilton/pokemon-catcher/internal/version.Commit=$(git rev-parse --short HEAD)" ./cmd/pokecatcher
package version

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// Commit is the source revision, empty when unknown.
	Commit = ""
)

// GetVersion returns the version with the commit appended when known.
func GetVersion() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
