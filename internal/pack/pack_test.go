package pack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSkill(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	toml := "[skill]\nname = \"my-skill\"\nowner = \"acme\"\nversion = \"1.0.0\"\ndescription = \"A test skill\"\n"
	if err := os.WriteFile(filepath.Join(dir, "skill.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write skill.toml: %v", err)
	}
	md := "# My Skill\n\nA test skill.\n"
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(md), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}
}

func TestPackCreatesArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir)

	result, err := Pack(dir)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !result.NewVersionAdded {
		t.Fatalf("expected a new version entry on first pack")
	}
	if result.ManifestUnchanged {
		t.Fatalf("first pack should not report the manifest as unchanged")
	}

	manifest, err := os.ReadFile(result.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(manifest), "SKILL.md") {
		t.Fatalf("manifest should reference SKILL.md: %s", manifest)
	}
	if !strings.Contains(string(manifest), "skill.toml") {
		t.Fatalf("manifest should reference skill.toml: %s", manifest)
	}

	versions, err := os.ReadFile(result.VersionsPath)
	if err != nil {
		t.Fatalf("read versions.toml: %v", err)
	}
	if !strings.Contains(string(versions), "[[versions]]") {
		t.Fatalf("versions.toml should have a version entry: %s", versions)
	}
}

func TestPackIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir)

	if _, err := Pack(dir); err != nil {
		t.Fatalf("first Pack: %v", err)
	}

	result, err := Pack(dir)
	if err != nil {
		t.Fatalf("second Pack: %v", err)
	}
	if result.NewVersionAdded {
		t.Fatalf("re-packing the same version should not add a new versions.toml entry")
	}
	if !result.ManifestUnchanged {
		t.Fatalf("re-packing unchanged content should report the manifest as unchanged")
	}
}

func TestPackFailsOnInvalidSkill(t *testing.T) {
	dir := t.TempDir()
	if _, err := Pack(dir); err == nil {
		t.Fatalf("expected error packing a directory with no skill.toml")
	}
}
