package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, settings ...debug.BuildSetting) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
	t.Cleanup(func() { readBuildInfo = orig })
}

func withInjected(t *testing.T, commit, date string) {
	t.Helper()
	origCommit, origDate := Commit, Date
	Commit, Date = commit, date
	t.Cleanup(func() { Commit, Date = origCommit, origDate })
}

func TestStringWithoutVCS(t *testing.T) {
	withInjected(t, unknown, unknown)
	withBuildInfo(t)

	if got := String(); !strings.HasPrefix(got, "tapcolour "+Version+" (go") {
		t.Errorf("String() = %q", got)
	}
}

func TestStringInjected(t *testing.T) {
	withInjected(t, "0123456789abcdef", "2025-01-01T00:00:00Z")
	withBuildInfo(t, debug.BuildSetting{Key: "vcs.revision", Value: "ffffffffffff"})

	got := String()
	if !strings.Contains(got, "commit 01234567,") || !strings.Contains(got, "built 2025-01-01T00:00:00Z") {
		t.Errorf("String() = %q, want injected values to win", got)
	}
}

func TestGetInfoFromVCS(t *testing.T) {
	withInjected(t, unknown, unknown)
	withBuildInfo(t,
		debug.BuildSetting{Key: "vcs.revision", Value: "abc"},
		debug.BuildSetting{Key: "vcs.time", Value: "2025-06-01T12:00:00Z"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)

	info := GetInfo()
	if info.Commit != "abc" || info.Date != "2025-06-01T12:00:00Z" || !info.Modified {
		t.Errorf("GetInfo() = %+v", info)
	}
	if got := String(); !strings.Contains(got, "commit abc-dirty,") {
		t.Errorf("String() = %q", got)
	}
}
