package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runkids/skillhub/internal/skillstate"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func withHome(t *testing.T) {
	t.Helper()
	old := os.Getenv("HOME")
	os.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { os.Setenv("HOME", old) })
}

func TestLocalSkillsDiscoversProjectLocalSkill(t *testing.T) {
	withHome(t)
	chdir(t, t.TempDir())

	skillDir := filepath.Join(".agents", "skills", "mytool")
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "# My Tool\n\nA locally installed skill.\n"
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	index := LocalSkills()
	entry, ok := index.Skills[skillstate.SkillKey{Owner: "local", Name: "mytool"}]
	if !ok {
		t.Fatalf("expected mytool to be discovered: %+v", index.Skills)
	}
	if entry.Source.Kind != skillstate.SourceLocal {
		t.Fatalf("expected SourceLocal, got %v", entry.Source.Kind)
	}
	if entry.Versions[0].Metadata.Skill.Description != "A locally installed skill." {
		t.Fatalf("unexpected description: %q", entry.Versions[0].Metadata.Skill.Description)
	}
}

func TestLocalSkillsIgnoresHiddenDirsAndDirsWithoutSkillMD(t *testing.T) {
	withHome(t)
	chdir(t, t.TempDir())

	mustMkdir(t, filepath.Join(".agents", "skills", ".hidden"))
	mustMkdir(t, filepath.Join(".agents", "skills", "incomplete"))

	index := LocalSkills()
	if len(index.Skills) != 0 {
		t.Fatalf("expected no skills discovered, got %+v", index.Skills)
	}
}

func TestLocalSkillsEmptyWithoutAnySkillDirs(t *testing.T) {
	withHome(t)
	chdir(t, t.TempDir())

	index := LocalSkills()
	if len(index.Skills) != 0 {
		t.Fatalf("expected an empty index, got %+v", index.Skills)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
}
