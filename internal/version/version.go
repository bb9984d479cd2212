// Package version reports the propintel build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version, Commit and Date are set at build time with -ldflags "-X".
var (
	Version = "development"
	Commit  = "unknown"
	Date    = ""
)

var readBuildInfo = debug.ReadBuildInfo

// String returns the version with the commit appended when known. Without an ldflags
// commit the VCS revision recorded by the Go toolchain is used.
func String() string {
	commit := Commit
	if commit == "unknown" {
		commit = vcsRevision()
	}
	if commit == "" || commit == "unknown" {
		return Version
	}
	return Version + "+" + commit
}

// Detailed returns the version line printed by `propintel version --verbose`.
func Detailed() string {
	s := fmt.Sprintf("propintel %s (%s %s/%s)", String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if Date != "" {
		s += " built " + Date
	}
	return s
}

func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return setting.Value[:7]
		}
	}
	return ""
}
