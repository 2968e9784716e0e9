package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withValues(t *testing.T, version, commit, date string, bi *debug.BuildInfo) {
	t.Helper()
	oldV, oldC, oldD, oldRead := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() { Version, Commit, Date, readBuildInfo = oldV, oldC, oldD, oldRead })
	Version, Commit, Date = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		bi      *debug.BuildInfo
		want    string
	}{
		{name: "dev", want: "dev"},
		{name: "devel module", bi: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, want: "dev"},
		{name: "module version", bi: &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}}, want: "v0.3.0"},
		{name: "ldflags win", version: "1.2.3", bi: &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}}, want: "1.2.3"},
		{name: "commit and date", version: "1.2.3", commit: "0123456789abcdef", date: "2026-02-09", want: "1.2.3 (commit=0123456, date=2026-02-09)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withValues(t, tt.version, tt.commit, tt.date, tt.bi)
			assert.Equal(t, tt.want, Summary())
		})
	}
}
