package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origGoVersion := Version, GitCommit, GoVersion
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GoVersion = origGoVersion
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""

	info := Get()
	if info == nil {
		t.Fatal("expected non-nil Info")
	}
	if info.Version != "dev" {
		t.Errorf("version = %s, want dev", info.Version)
	}
}

func TestShortWithCommit(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.3"
	GitCommit = "abc1234"

	short := Short()
	if !strings.HasPrefix(short, "1.2.3-abc1234") {
		t.Errorf("short = %s", short)
	}
}
