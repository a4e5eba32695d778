package app

import "fmt"

// Build metadata printed by `align --version` and logged at startup.
// Release builds stamp it with ldflags:
//
//	go build -ldflags "-X github.com/evrys/hayauchi/internal/app.Version=v0.3.0 -X github.com/evrys/hayauchi/internal/app.Commit=$(git rev-parse --short HEAD)" ./cmd/align
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the build metadata on one line.
func BuildVersion() string {
	return fmt.Sprintf("align %s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
