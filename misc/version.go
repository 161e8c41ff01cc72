// Package misc keeps build time information.
package misc

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set by linker.
var (
	appName = "wst"
	version = "dev"
	gitHash = ""
)

// GetAppName returns program name used for logs, reports and temporary files.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit program was built from, falls back to vcs
// information recorded by go toolchain.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// GetFullVersion is what we print for --version.
func GetFullVersion() string {
	return fmt.Sprintf("%s (%s) %s %s/%s", GetVersion(), GetGitHash(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
