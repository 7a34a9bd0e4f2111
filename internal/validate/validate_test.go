package validate

import (
	"os"
	"path/filepath"
	"testing"
)

func writeValidSkill(t *testing.T, dir string) {
	t.Helper()
	toml := "[skill]\nname = \"tool\"\nowner = \"acme\"\nversion = \"1.0.0\"\ndescription = \"Does things\"\n"
	if err := os.WriteFile(filepath.Join(dir, "skill.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write skill.toml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# Tool\n\nDoes things.\n"), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}
}

func TestValidateSucceedsOnWellFormedSkill(t *testing.T) {
	dir := t.TempDir()
	writeValidSkill(t, dir)

	result, err := Validate(dir)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Owner != "acme" || result.Name != "tool" || result.Version != "1.0.0" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ManifestOK != nil {
		t.Fatalf("expected nil ManifestOK with no MANIFEST.sha256 present")
	}
}

func TestValidateFailsMissingSkillToml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# Tool\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Validate(dir); err == nil {
		t.Fatalf("expected error without skill.toml")
	}
}

func TestValidateFailsEmptySkillMD(t *testing.T) {
	dir := t.TempDir()
	writeValidSkill(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("   \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Validate(dir); err == nil {
		t.Fatalf("expected error for empty SKILL.md")
	}
}

func TestValidateFailsWhitespaceInName(t *testing.T) {
	dir := t.TempDir()
	toml := "[skill]\nname = \"bad name\"\nowner = \"acme\"\nversion = \"1.0.0\"\ndescription = \"x\"\n"
	if err := os.WriteFile(filepath.Join(dir, "skill.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# Bad\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Validate(dir); err == nil {
		t.Fatalf("expected error for whitespace in name")
	}
}

func TestValidateFailsEmptyDescription(t *testing.T) {
	dir := t.TempDir()
	toml := "[skill]\nname = \"tool\"\nowner = \"acme\"\nversion = \"1.0.0\"\ndescription = \"\"\n"
	if err := os.WriteFile(filepath.Join(dir, "skill.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# Tool\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Validate(dir); err == nil {
		t.Fatalf("expected error for empty description")
	}
}

func TestValidateDetectsManifestMismatch(t *testing.T) {
	dir := t.TempDir()
	writeValidSkill(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "MANIFEST.sha256"), []byte("deadbeef  *\ndeadbeef  SKILL.md\ndeadbeef  skill.toml\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	result, err := Validate(dir)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.ManifestOK == nil || *result.ManifestOK {
		t.Fatalf("expected ManifestOK=false for a tampered manifest")
	}
	if len(result.Warnings) == 0 {
		t.Fatalf("expected a warning describing the manifest mismatch")
	}
}

func TestValidateLenientInfersMetadata(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-tool")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("---\nname: my-tool\ndescription: Does a thing\n---\n\n# My Tool\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result, err := ValidateLenient(dir, nil)
	if err != nil {
		t.Fatalf("ValidateLenient: %v", err)
	}
	if result.Name != "my-tool" {
		t.Fatalf("expected inferred name my-tool, got %q", result.Name)
	}
	if result.SkillTomlRaw != "" {
		t.Fatalf("expected empty SkillTomlRaw in lenient mode")
	}
}

func TestValidateLenientFailsMissingSkillMD(t *testing.T) {
	dir := t.TempDir()
	if _, err := ValidateLenient(dir, nil); err == nil {
		t.Fatalf("expected error without SKILL.md")
	}
}
