// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/alexiusacademia/gocol/internal/version.Version=1.0.0"
package version

import "fmt"

var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"

	Author = "Alexius Academia"
	Year   = "2025"
)

// Info is the build metadata reported by the CLI and the API.
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
}

func (i Info) String() string {
	return fmt.Sprintf("gocol v%s (commit %s, built %s)", i.Version, i.GitCommit, i.BuildTime)
}
