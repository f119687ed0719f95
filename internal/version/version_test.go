package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldCommit, oldDate := Commit, Date
	t.Cleanup(func() { Commit, Date = oldCommit, oldDate })

	Commit, Date = "unknown", "unknown"
	if got := String("daycount"); !strings.HasPrefix(got, "daycount version "+Version+" (") {
		t.Errorf("String() = %q", got)
	}

	Commit, Date = "0123456789abcdef", "2026-01-01T00:00:00Z"
	if got := String("daycount"); !strings.Contains(got, "commit: 01234567,") {
		t.Errorf("String() = %q, want short commit", got)
	}

	Commit = "abc"
	if got := String("daycount"); !strings.Contains(got, "commit: abc,") {
		t.Errorf("String() = %q, want full short commit", got)
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version != Version || info.GoVersion == "" || !strings.Contains(info.Platform, "/") {
		t.Errorf("GetInfo() = %+v", info)
	}
}
