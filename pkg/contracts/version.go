package contracts

import (
	"runtime"
)

// APIVersion is the version of the HTTP and event contracts
const APIVersion = "v1"

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"

	// GitBranch is set during build using ldflags
	GitBranch = "unknown"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GitBranch    string `json:"git_branch"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"arch"`
	APIVersion   string `json:"api_version"`
}

// GetBuildInfo returns the build metadata baked in with ldflags
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GitBranch:    GitBranch,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
}
