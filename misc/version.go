// Package misc keeps small helpers which do not belong anywhere else.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "ttc"

// GetAppName returns short program name used for logs, temporary files and
// report naming.
func GetAppName() string {
	return appName
}

var readBuildInfo = sync.OnceValues(func() (string, string) {
	version, hash := "unknown", "unknown"

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return version, hash
	}
	if len(bi.Main.Version) > 0 && bi.Main.Version != "(devel)" {
		version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			hash = s.Value
			if len(hash) > 12 {
				hash = hash[:12]
			}
			break
		}
	}
	return version, hash
})

// GetVersion returns module version as recorded by the Go toolchain.
func GetVersion() string {
	v, _ := readBuildInfo()
	return v
}

// GetGitHash returns abbreviated VCS revision the binary was built from.
func GetGitHash() string {
	_, h := readBuildInfo()
	return h
}
