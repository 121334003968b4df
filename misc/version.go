// Package misc keeps small helpers needed across the program which do not
// deserve a package of their own.
package misc

import (
	"runtime/debug"
)

const appName = "dsg"

// set by the linker during release builds
var version string

// GetAppName returns short program name to be used in logs and messages.
func GetAppName() string {
	return appName
}

// GetVersion returns program version - either set by the linker or derived
// from module build information.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "unknown"
}

// GetGitHash returns VCS revision recorded in build information.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 8 {
				return s.Value[:8]
			}
			return s.Value
		}
	}
	return "unknown"
}
