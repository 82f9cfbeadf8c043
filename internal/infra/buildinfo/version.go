// Package buildinfo reports the version of the running binary.
//
// Release builds inject the version via ldflags:
//
//	go build -ldflags "-X github.com/nzoba/keva-go/internal/infra/buildinfo.Version=v1.2.0"
//
// The commit and build time come from the module metadata Go embeds in
// every binary, so plain go build and go install binaries report them
// without any ldflags.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Version is the release version. "dev" when the binary was not built
// by the release pipeline.
var Version = "dev"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get assembles build information from the injected version and the
// binary's embedded module metadata.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders the one-line form used by --version output.
func String() string {
	info := Get()

	s := info.Version
	if info.Commit != "unknown" {
		commit := info.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		s += " (" + commit
		if info.Modified {
			s += "+dirty"
		}
		s += ")"
	}
	return s
}
