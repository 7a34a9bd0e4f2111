package main

import (
	"os"
	"path/filepath"
	"testing"
)

// These tests exercise the same end-to-end workflows as
// skillhub's scenario tests, but call the command functions in-process
// instead of shelling out to a built binary: scaffold -> validate -> pack,
// install -> list, multi-registry precedence, and trust audit tampering
// detection.

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	old := os.Getenv("HOME")
	os.Setenv("HOME", home)
	t.Cleanup(func() { os.Setenv("HOME", old) })
	return home
}

func writeMiniSkill(t *testing.T, registry, owner, name, description string) {
	t.Helper()
	dir := filepath.Join(registry, owner, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	toml := "[skill]\nname = \"" + name + "\"\nowner = \"" + owner + "\"\nversion = \"1.0.0\"\ndescription = \"" + description + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "skill.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write skill.toml: %v", err)
	}
	md := "# " + name + "\n\n" + description + "\n"
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(md), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}
}

func TestScenarioAuthorFlow(t *testing.T) {
	withHome(t)
	skillDir := filepath.Join(t.TempDir(), "testauthor", "my-skill")

	if err := cmdInitSkill([]string{skillDir, "--owner", "testauthor", "--name", "my-skill", "--message", "A workflow test skill"}); err != nil {
		t.Fatalf("init-skill: %v", err)
	}

	md := "# My Skill\n\nThis skill helps with workflow testing.\n\n## Usage\n\nJust use it.\n"
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(md), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}

	if code, err := cmdValidate([]string{skillDir}); err != nil || code != 0 {
		t.Fatalf("validate: code=%d err=%v", code, err)
	}

	if code, err := cmdPack([]string{skillDir}); err != nil || code != 0 {
		t.Fatalf("pack: code=%d err=%v", code, err)
	}

	if _, err := os.Stat(filepath.Join(skillDir, "MANIFEST.sha256")); err != nil {
		t.Fatalf("MANIFEST.sha256 missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(skillDir, "versions.toml")); err != nil {
		t.Fatalf("versions.toml missing: %v", err)
	}

	// Re-pack is idempotent.
	if code, err := cmdPack([]string{skillDir}); err != nil || code != 0 {
		t.Fatalf("second pack: code=%d err=%v", code, err)
	}
}

func TestScenarioConsumerFlow(t *testing.T) {
	withHome(t)
	registry := t.TempDir()
	writeMiniSkill(t, registry, "joshrotenberg", "rust-dev", "Rust project setup")

	projectDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(projectDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })

	if err := cmdInstall([]string{"joshrotenberg/rust-dev", "--registry", registry, "--target", "agents"}); err != nil {
		t.Fatalf("install: %v", err)
	}

	installedPath := filepath.Join(projectDir, ".agents", "skills", "rust-dev", "SKILL.md")
	installed, err := os.ReadFile(installedPath)
	if err != nil {
		t.Fatalf("read installed SKILL.md: %v", err)
	}
	source, err := os.ReadFile(filepath.Join(registry, "joshrotenberg", "rust-dev", "SKILL.md"))
	if err != nil {
		t.Fatalf("read source SKILL.md: %v", err)
	}
	if string(installed) != string(source) {
		t.Fatalf("installed content does not match registry content")
	}

	if err := cmdList(nil); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestScenarioMultiRegistryPrecedence(t *testing.T) {
	withHome(t)
	regA := filepath.Join(t.TempDir(), "reg-a")
	regB := filepath.Join(t.TempDir(), "reg-b")

	writeMiniSkill(t, regA, "shared", "tool", "Tool from registry A")
	writeMiniSkill(t, regA, "alpha", "unique-a", "Only in A")
	writeMiniSkill(t, regB, "shared", "tool", "Tool from registry B")
	writeMiniSkill(t, regB, "beta", "unique-b", "Only in B")

	_, index, err := loadMergedIndex(commonOpts{registryFlags: registryFlags{Registries: []string{regA, regB}}})
	if err != nil {
		t.Fatalf("load registries: %v", err)
	}

	entry, ok := index.Skills[skillKey("shared", "tool")]
	if !ok {
		t.Fatalf("shared/tool not found in merged index")
	}
	if got := entry.Latest().Metadata.Skill.Description; got != "Tool from registry A" {
		t.Fatalf("first-registry-wins violated: got %q", got)
	}

	if _, ok := index.Skills[skillKey("alpha", "unique-a")]; !ok {
		t.Fatalf("unique-a from registry A missing from merged index")
	}
	if _, ok := index.Skills[skillKey("beta", "unique-b")]; !ok {
		t.Fatalf("unique-b from registry B missing from merged index")
	}
}

func TestScenarioTrustAuditDetectsTamper(t *testing.T) {
	withHome(t)
	registry := t.TempDir()
	writeMiniSkill(t, registry, "joshrotenberg", "rust-dev", "Rust project setup")

	projectDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(projectDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })

	if err := cmdInstall([]string{"joshrotenberg/rust-dev", "--registry", registry, "--target", "agents"}); err != nil {
		t.Fatalf("install: %v", err)
	}

	if code, err := cmdAudit(nil); err != nil || code != 0 {
		t.Fatalf("first audit should be clean: code=%d err=%v", code, err)
	}

	installedPath := filepath.Join(projectDir, ".agents", "skills", "rust-dev", "SKILL.md")
	tampered := "tampered content"
	if err := os.WriteFile(installedPath, []byte(tampered), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	code, err := cmdAudit(nil)
	if err != nil {
		t.Fatalf("second audit errored: %v", err)
	}
	if code != 2 {
		t.Fatalf("second audit should report a problem, got exit code %d", code)
	}
}

func TestScenarioSafetyGateBlocksThenPasses(t *testing.T) {
	withHome(t)
	skillDir := filepath.Join(t.TempDir(), "testauthor", "risky-skill")
	if err := cmdInitSkill([]string{skillDir, "--owner", "testauthor", "--name", "risky-skill"}); err != nil {
		t.Fatalf("init-skill: %v", err)
	}

	dangerous := "# Risky Skill\n\nRun this: $(rm -rf /)\nAlso: eval \"$USER_INPUT\"\n"
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(dangerous), 0o644); err != nil {
		t.Fatalf("write dangerous SKILL.md: %v", err)
	}

	code, err := cmdValidate([]string{skillDir})
	if err != nil {
		t.Fatalf("validate errored instead of returning exit code 2: %v", err)
	}
	if code != 2 {
		t.Fatalf("expected exit code 2 for dangerous content, got %d", code)
	}

	safe := "# Safe Skill\n\nThis skill is perfectly safe and helpful.\n"
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(safe), 0o644); err != nil {
		t.Fatalf("write safe SKILL.md: %v", err)
	}

	if code, err := cmdValidate([]string{skillDir}); err != nil || code != 0 {
		t.Fatalf("validate after fix: code=%d err=%v", code, err)
	}
}

func TestScenarioFlatRepoDiscovery(t *testing.T) {
	withHome(t)
	base := t.TempDir()
	registry := filepath.Join(base, "flatowner")
	// A flat repo: the skill sits directly under the registry root, no
	// owner/name nesting and no git remote, so owner falls back to the
	// registry directory's own basename ("flatowner").
	skillDir := filepath.Join(registry, "flat-tool")
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	toml := "[skill]\nname = \"flat-tool\"\nowner = \"flatowner\"\nversion = \"1.0.0\"\ndescription = \"A flat repo skill\"\n"
	if err := os.WriteFile(filepath.Join(skillDir, "skill.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write skill.toml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("# Flat Tool\n\nA flat repo skill.\n"), 0o644); err != nil {
		t.Fatalf("write SKILL.md: %v", err)
	}

	_, index, err := loadMergedIndex(commonOpts{registryFlags: registryFlags{Registries: []string{registry}}})
	if err != nil {
		t.Fatalf("load registries: %v", err)
	}
	if _, ok := index.Skills[skillKey("flatowner", "flat-tool")]; !ok {
		t.Fatalf("flat-tool not discovered in merged index")
	}
}

func TestScenarioVersionedEntryYankedSkipped(t *testing.T) {
	withHome(t)
	registry := t.TempDir()
	writeMiniSkill(t, registry, "acme", "tool", "Tool v1")

	versionsPath := filepath.Join(registry, "acme", "tool", "versions.toml")
	versions := "[[versions]]\nversion = \"1.0.0\"\npublished = \"2026-01-01T00:00:00Z\"\nyanked = true\n"
	if err := os.WriteFile(versionsPath, []byte(versions), 0o644); err != nil {
		t.Fatalf("write versions.toml: %v", err)
	}

	_, index, err := loadMergedIndex(commonOpts{registryFlags: registryFlags{Registries: []string{registry}}})
	if err != nil {
		t.Fatalf("load registries: %v", err)
	}
	entry, ok := index.Skills[skillKey("acme", "tool")]
	if !ok {
		t.Fatalf("acme/tool not found in merged index")
	}
	// versions.toml's only entry is yanked, so there is no installable
	// version even though skill.toml itself parses fine.
	if entry.Latest() != nil {
		t.Fatalf("Latest() should be nil when the only version is yanked, got %+v", entry.Latest())
	}
}
