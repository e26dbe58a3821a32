// Package version reports the podradar build, injected via ldflags:
//
//	-X github.com/carverauto/podradar/pkg/version.version=1.2.0
//	-X github.com/carverauto/podradar/pkg/version.buildID=$(git rev-parse --short HEAD)
package version

import "fmt"

//nolint:gochecknoglobals // set by the linker
var (
	version = "dev"
	buildID = "dev"
)

func GetVersion() string {
	return version
}

func GetBuildID() string {
	return buildID
}

// GetFullVersion returns "podradar <version> (build: <id>)".
func GetFullVersion() string {
	return fmt.Sprintf("podradar %s (build: %s)", version, buildID)
}
