package version

import (
	"strings"
	"testing"
)

func TestVersionCarriesSemverParts(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must have a default")
	}
	for _, part := range []string{"0", "1", "-dev"} {
		if !strings.Contains(Version, part) {
			t.Errorf("Version %q missing %q", Version, part)
		}
	}
}

func TestBuildFingerprintsOverridable(t *testing.T) {
	// GitCommit and BuildDate default empty and are filled by ldflags.
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "abc123", "2026-08-26"
	if GitCommit != "abc123" || BuildDate != "2026-08-26" {
		t.Fatalf("fingerprints not overridable: %q %q", GitCommit, BuildDate)
	}
}
