package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsDigits(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = orig, origNoColor })
	color.NoColor = true

	Version = "1.2.3-rc1"
	if got := Colored(); got != "1.2.3-rc1" {
		t.Errorf("Colored() = %q", got)
	}
	Version = "weird"
	if got := Colored(); got != "weird" {
		t.Errorf("Colored() = %q", got)
	}
}

func TestCommitOverride(t *testing.T) {
	orig := GitCommit
	t.Cleanup(func() { GitCommit = orig })

	GitCommit = "abc123def456"
	if got := Commit(); got != "abc123def456" {
		t.Errorf("Commit() = %q", got)
	}
}
