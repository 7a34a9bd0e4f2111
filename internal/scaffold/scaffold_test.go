package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillWritesMinimalFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-skill")
	if err := Skill(dir, "acme", "my-skill", "A test skill"); err != nil {
		t.Fatalf("Skill: %v", err)
	}

	toml, err := os.ReadFile(filepath.Join(dir, "skill.toml"))
	if err != nil {
		t.Fatalf("read skill.toml: %v", err)
	}
	if !strings.Contains(string(toml), `name = "my-skill"`) {
		t.Fatalf("skill.toml missing name: %s", toml)
	}
	if !strings.Contains(string(toml), `owner = "acme"`) {
		t.Fatalf("skill.toml missing owner: %s", toml)
	}

	md, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		t.Fatalf("read SKILL.md: %v", err)
	}
	if !strings.Contains(string(md), "My Skill") {
		t.Fatalf("SKILL.md heading not title-cased: %s", md)
	}
}

func TestSkillFailsIfExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-skill")
	if err := Skill(dir, "acme", "my-skill", "desc"); err != nil {
		t.Fatalf("first Skill: %v", err)
	}
	if err := Skill(dir, "acme", "my-skill", "desc"); err == nil {
		t.Fatalf("expected error scaffolding over an existing skill")
	}
}

func TestProjectWritesSkilletToml(t *testing.T) {
	dir := t.TempDir()
	if err := Project(dir, "my-project", "A test project"); err != nil {
		t.Fatalf("Project: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "skillet.toml"))
	if err != nil {
		t.Fatalf("read skillet.toml: %v", err)
	}
	if !strings.Contains(string(content), "my-project") {
		t.Fatalf("skillet.toml missing project name: %s", content)
	}
	if _, err := os.Stat(filepath.Join(dir, "SKILL.md")); err != nil {
		t.Fatalf("expected SKILL.md to be scaffolded: %v", err)
	}
}

func TestProjectFailsIfSkilletTomlExists(t *testing.T) {
	dir := t.TempDir()
	if err := Project(dir, "my-project", "desc"); err != nil {
		t.Fatalf("first Project: %v", err)
	}
	if err := Project(dir, "my-project", "desc"); err == nil {
		t.Fatalf("expected error scaffolding over an existing skillet.toml")
	}
}
