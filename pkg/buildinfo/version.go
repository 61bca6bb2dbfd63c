// Package buildinfo reports the version of the running binary.
//
// Version, Commit and Date are stamped at link time:
//
//	go build -ldflags "-X github.com/matzehuels/puncta/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/puncta/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/puncta/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// AlgorithmVersion identifies the circle algorithm and its tolerances. It is
// part of every cache key so that results computed by an older build are
// never served after the geometry changes.
const AlgorithmVersion = "sec-welzl-2"

// Info describes a build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Algorithm string `json:"algorithm"`
}

// Get returns the current build.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Algorithm: AlgorithmVersion}
}

// String formats the build for humans.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", i.Version, i.Commit, i.Date, i.Algorithm)
}

// Template returns the cobra --version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\nalgorithm: %s\n",
		Version, Commit, Date, AlgorithmVersion)
}
