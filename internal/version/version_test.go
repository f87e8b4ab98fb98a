package version

import "testing"

func TestGetVersion(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v1.0.0", ""
	if got := GetVersion(); got != "v1.0.0" {
		t.Errorf("GetVersion() = %q, want v1.0.0", got)
	}

	Commit = "abc123"
	if got := GetVersion(); got != "v1.0.0 (abc123)" {
		t.Errorf("GetVersion() = %q, want %q", got, "v1.0.0 (abc123)")
	}
}
