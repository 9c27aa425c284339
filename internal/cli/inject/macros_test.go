package inject

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/epics-tools/synstall/pkg/install"
)

var testPairs = []install.MacroPair{
	{Key: "JPEG_EXTERNAL", Value: "YES"},
	{Key: "WITH_BOOST", Value: "NO"},
}

func writeTargetFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestUpdateMacrosRewritesAndComments(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, "CONFIG_SITE.local",
		"JPEG_EXTERNAL=NO\nSOME_SETTING=stale\n# a comment\n")

	res, err := UpdateMacros(testPairs, dir, install.DefaultEpicsArch)
	if err != nil {
		t.Fatalf("UpdateMacros returned error: %v", err)
	}
	if len(res.Rewritten) != 1 || res.Rewritten[0] != "CONFIG_SITE.local" {
		t.Fatalf("unexpected result: %+v", res)
	}

	got, _ := os.ReadFile(filepath.Join(dir, "CONFIG_SITE.local"))
	want := "JPEG_EXTERNAL=YES\n#SOME_SETTING=stale\n# a comment\nWITH_BOOST=NO\n"
	if string(got) != want {
		t.Fatalf("unexpected rewrite:\n%q", got)
	}

	backup, err := os.ReadFile(filepath.Join(dir, BackupDirName, "CONFIG_SITE.local"))
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !strings.Contains(string(backup), "SOME_SETTING=stale") {
		t.Fatalf("backup does not hold the original: %q", backup)
	}
}

func TestUpdateMacrosEligibility(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, "CONFIG_SITE.linux-x86_64", "JPEG_EXTERNAL=NO\n")
	writeTargetFile(t, dir, "Makefile", "JPEG_EXTERNAL=NO\n")
	writeTargetFile(t, dir, "README.md", "docs\n")

	res, err := UpdateMacros(testPairs, dir, install.DefaultEpicsArch)
	if err != nil {
		t.Fatalf("UpdateMacros returned error: %v", err)
	}
	if len(res.Rewritten) != 2 {
		t.Fatalf("expected 2 rewritten files, got %v", res.Rewritten)
	}
	if len(res.Relocated) != 1 || res.Relocated[0] != "README.md" {
		t.Fatalf("expected README.md relocated, got %v", res.Relocated)
	}

	// Ineligible files move to the backup dir and leave no rewritten copy.
	if _, err := os.Stat(filepath.Join(dir, "README.md")); !os.IsNotExist(err) {
		t.Fatalf("ineligible file still present at original location")
	}
	if _, err := os.Stat(filepath.Join(dir, BackupDirName, "README.md")); err != nil {
		t.Fatalf("ineligible file missing from backup: %v", err)
	}
}

func TestUpdateMacrosStripsExamplePrefix(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, "EXAMPLE_RELEASE.local", "JPEG_EXTERNAL=NO\n")

	res, err := UpdateMacros(testPairs, dir, install.DefaultEpicsArch)
	if err != nil {
		t.Fatalf("UpdateMacros returned error: %v", err)
	}
	if len(res.Rewritten) != 1 || res.Rewritten[0] != "RELEASE.local" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(filepath.Join(dir, "EXAMPLE_RELEASE.local")); !os.IsNotExist(err) {
		t.Fatalf("EXAMPLE_ template left at original location")
	}
	if _, err := os.Stat(filepath.Join(dir, "RELEASE.local")); err != nil {
		t.Fatalf("stripped-name output missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, BackupDirName, "EXAMPLE_RELEASE.local")); err != nil {
		t.Fatalf("backup under original name missing: %v", err)
	}
}

func TestUpdateMacrosRunTwiceKeepsKeysUnique(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, "CONFIG_SITE.local", "JPEG_EXTERNAL=NO\nOTHER=x\n")

	for i := 0; i < 2; i++ {
		if _, err := UpdateMacros(testPairs, dir, install.DefaultEpicsArch); err != nil {
			t.Fatalf("UpdateMacros returned error: %v", err)
		}
	}

	got, _ := os.ReadFile(filepath.Join(dir, "CONFIG_SITE.local"))
	for _, pair := range testPairs {
		if n := strings.Count(string(got), pair.Key+"="); n != 1 {
			t.Fatalf("key %s appears %d times:\n%s", pair.Key, n, got)
		}
	}
}

func TestUpdateMacrosConsumptionIsPerFile(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, "CONFIG_A.local", "JPEG_EXTERNAL=NO\n")
	writeTargetFile(t, dir, "CONFIG_B.local", "JPEG_EXTERNAL=NO\n")

	if _, err := UpdateMacros(testPairs, dir, install.DefaultEpicsArch); err != nil {
		t.Fatalf("UpdateMacros returned error: %v", err)
	}

	for _, name := range []string{"CONFIG_A.local", "CONFIG_B.local"} {
		got, _ := os.ReadFile(filepath.Join(dir, name))
		if !strings.Contains(string(got), "JPEG_EXTERNAL=YES") {
			t.Fatalf("%s did not receive the substitution:\n%s", name, got)
		}
	}
}

func TestUpdateMacrosAppendsUnconsumedPairs(t *testing.T) {
	dir := t.TempDir()
	writeTargetFile(t, dir, "RELEASE", "EPICS_BASE=/old/base\n")

	pairs := []install.MacroPair{{Key: "NEW_SETTING", Value: "1"}}
	if _, err := UpdateMacros(pairs, dir, install.DefaultEpicsArch); err != nil {
		t.Fatalf("UpdateMacros returned error: %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "RELEASE"))
	if !strings.HasSuffix(string(got), "NEW_SETTING=1\n") {
		t.Fatalf("unconsumed pair not appended:\n%s", got)
	}
}

func TestUpdateMacrosNonDirectoryTarget(t *testing.T) {
	if _, err := UpdateMacros(testPairs, filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Fatalf("expected error for missing target dir")
	}
}
