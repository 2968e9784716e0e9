// Package buildinfo exposes version metadata for the CLI. Values can be
// overridden at build time via -ldflags, e.g.
//
//	-ldflags "-X 'github.com/flarebyte/clustermap/internal/buildinfo.Version=1.2.3'"
//
// Without ldflags the module version recorded by `go install` is used.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

var (
	// Version is the semantic version or custom string.
	Version = ""
	// Commit is the VCS commit hash (optional).
	Commit = ""
	// Date is the build time in RFC3339 or similar (optional).
	Date = ""
	// BuiltBy is an optional builder identifier (optional).
	BuiltBy = ""
)

var readBuildInfo = debug.ReadBuildInfo

// ResolvedVersion returns Version, the embedded module version, or "dev".
func ResolvedVersion() string {
	if Version != "" {
		return Version
	}
	if bi, ok := readBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}

// Summary returns a concise single-line version string.
func Summary() string {
	v := ResolvedVersion()

	parts := make([]string, 0, 2)
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if Date != "" {
		parts = append(parts, "date="+Date)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}
