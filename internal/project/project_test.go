package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runkids/skillhub/internal/skillstate"
)

func TestLoadSkilletTomlMissingReturnsNil(t *testing.T) {
	m, err := LoadSkilletToml(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSkilletToml: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil manifest for a directory with no skillet.toml")
	}
}

func TestLoadSkilletTomlParsesProjectSection(t *testing.T) {
	dir := t.TempDir()
	content := "[project]\nname = \"my-project\"\ndescription = \"A test project\"\n"
	if err := os.WriteFile(filepath.Join(dir, "skillet.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := LoadSkilletToml(dir)
	if err != nil {
		t.Fatalf("LoadSkilletToml: %v", err)
	}
	if m == nil || m.Project == nil || m.Project.Name != "my-project" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Role() != RoleProjectOnly {
		t.Fatalf("expected RoleProjectOnly, got %v", m.Role())
	}
}

func TestManifestRolePriority(t *testing.T) {
	skillOnly := &SkilletToml{Skill: &SkillSection{}}
	if skillOnly.Role() != RoleSingleSkill {
		t.Fatalf("expected RoleSingleSkill")
	}

	skillsOnly := &SkilletToml{Skills: &SkillsSection{}}
	if skillsOnly.Role() != RoleMultiSkill {
		t.Fatalf("expected RoleMultiSkill")
	}

	registryOnly := &SkilletToml{Registry: &RegistrySection{}}
	if registryOnly.Role() != RoleRegistry {
		t.Fatalf("expected RoleRegistry")
	}

	both := &SkilletToml{Skill: &SkillSection{}, Registry: &RegistrySection{}}
	if both.Role() != RoleSingleSkill {
		t.Fatalf("expected skill to take priority over registry")
	}
}

func TestFindSkilletTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "skillet.toml"), []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if got := FindSkilletToml(nested); got != root {
		t.Fatalf("FindSkilletToml = %q, want %q", got, root)
	}
}

func TestFindSkilletTomlNotFound(t *testing.T) {
	if got := FindSkilletToml(t.TempDir()); got != "" {
		t.Fatalf("expected empty string when no skillet.toml exists, got %q", got)
	}
}

func TestParseFrontmatterBasicFields(t *testing.T) {
	md := "---\nname: my-tool\ndescription: Does a thing\nversion: 1.2.0\ntags: [a, b, c]\n---\n\n# My Tool\n"
	fm := ParseFrontmatter(md)
	if fm == nil {
		t.Fatalf("expected frontmatter to be parsed")
	}
	if fm.Name != "my-tool" || fm.Description != "Does a thing" || fm.Version != "1.2.0" {
		t.Fatalf("unexpected frontmatter: %+v", fm)
	}
	if len(fm.Tags) != 3 || fm.Tags[0] != "a" {
		t.Fatalf("unexpected tags: %+v", fm.Tags)
	}
}

func TestParseFrontmatterNoneWithoutDelimiter(t *testing.T) {
	if fm := ParseFrontmatter("# Just a heading\n"); fm != nil {
		t.Fatalf("expected nil frontmatter without a --- delimiter, got %+v", fm)
	}
}

func TestParseFrontmatterUnterminatedReturnsNil(t *testing.T) {
	md := "---\nname: broken\n\n# No closing delimiter\n"
	if fm := ParseFrontmatter(md); fm != nil {
		t.Fatalf("expected nil frontmatter when the closing --- is missing, got %+v", fm)
	}
}

func TestInferMetadataUsesDirNameAndFrontmatter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-tool")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	md := "---\ndescription: Does a thing\nversion: 2.0.0\n---\n\n# My Tool\n"
	metadata := InferMetadata(dir, md, nil)
	if metadata.Skill.Name != "my-tool" {
		t.Fatalf("expected name from directory, got %q", metadata.Skill.Name)
	}
	if metadata.Skill.Version != "2.0.0" {
		t.Fatalf("expected version from frontmatter, got %q", metadata.Skill.Version)
	}
	if metadata.Skill.Description != "Does a thing" {
		t.Fatalf("expected description from frontmatter, got %q", metadata.Skill.Description)
	}
}

func TestInferMetadataDefaultVersionAndDescription(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bare-tool")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	metadata := InferMetadata(dir, "# Bare Tool\n\nThis line becomes the description.\n", nil)
	if metadata.Skill.Version != "0.1.0" {
		t.Fatalf("expected default version 0.1.0, got %q", metadata.Skill.Version)
	}
	if metadata.Skill.Description != "This line becomes the description." {
		t.Fatalf("unexpected extracted description: %q", metadata.Skill.Description)
	}
}

func TestInferMetadataOwnerFromManifestAuthor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tool")
	manifest := &SkilletToml{Project: &ProjectSection{Authors: []ProjectAuthor{{Github: "acme"}}}}
	metadata := InferMetadata(dir, "# Tool\n", manifest)
	if metadata.Skill.Owner != "acme" {
		t.Fatalf("expected owner from manifest author github handle, got %q", metadata.Skill.Owner)
	}
}

func TestInferMetadataOwnerFallsBackToParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "myowner", "tool")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	metadata := InferMetadata(dir, "# Tool\n", nil)
	if metadata.Skill.Owner != "myowner" {
		t.Fatalf("expected owner inferred from parent directory, got %q", metadata.Skill.Owner)
	}
}

func TestOwnerFromGitRemoteNoGitReturnsEmpty(t *testing.T) {
	if got := OwnerFromGitRemote(t.TempDir()); got != "" {
		t.Fatalf("expected empty owner for a non-git directory, got %q", got)
	}
}

func TestLoadEmbeddedSkillsInlineSkill(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "SKILL.md"), []byte("# Inline\n\nAn inline skill.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	manifest := &SkilletToml{
		Project: &ProjectSection{Name: "myproj"},
		Skill:   &SkillSection{Name: "inline-skill", Description: "desc"},
	}
	index := LoadEmbeddedSkills(root, manifest)
	entry, ok := index.Skills[skillstate.SkillKey{Owner: entryOwner(index), Name: "inline-skill"}]
	if !ok {
		t.Fatalf("expected inline-skill to be indexed: %+v", index.Skills)
	}
	if entry.Source.Kind != skillstate.SourceEmbedded {
		t.Fatalf("expected SourceEmbedded, got %v", entry.Source.Kind)
	}
	if entry.Source.Project != "myproj" {
		t.Fatalf("expected project name myproj, got %q", entry.Source.Project)
	}
}

func entryOwner(index *skillstate.SkillIndex) string {
	for k := range index.Skills {
		return k.Owner
	}
	return ""
}

func TestLoadEmbeddedSkillsMultiSkillDirectory(t *testing.T) {
	root := t.TempDir()
	skillsDir := filepath.Join(root, ".skillet")
	for _, name := range []string{"one", "two"} {
		dir := filepath.Join(skillsDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("# "+name+"\n\nSkill "+name+".\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	manifest := &SkilletToml{Skills: &SkillsSection{}}
	index := LoadEmbeddedSkills(root, manifest)
	if len(index.Skills) != 2 {
		t.Fatalf("expected 2 embedded skills, got %d: %+v", len(index.Skills), index.Skills)
	}
}
