// Package scaffold writes starter files for new skills, registries,
// and projects: `skillhub init-skill`, `init-registry`, `init-project`.
// It produces the minimal valid skillpack/manifest, not a fully
// populated one -- the author fills in the rest.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/runkids/skillhub/internal/project"
	"github.com/runkids/skillhub/internal/registrymerge"
	"github.com/runkids/skillhub/internal/skillerr"
)

// Skill writes a minimal skill.toml + SKILL.md skeleton at dir for a
// skill named owner/name. Fails if either file already exists.
func Skill(dir, owner, name, description string) error {
	if description == "" {
		description = fmt.Sprintf("A skill for %s", name)
	}

	tomlPath := filepath.Join(dir, "skill.toml")
	mdPath := filepath.Join(dir, "SKILL.md")

	if _, err := os.Stat(tomlPath); err == nil {
		return fmt.Errorf("%s already exists", tomlPath)
	}
	if _, err := os.Stat(mdPath); err == nil {
		return fmt.Errorf("%s already exists", mdPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return skillerr.New(skillerr.KindScaffold, dir, err)
	}

	skillToml := fmt.Sprintf(`[skill]
name = "%s"
owner = "%s"
version = "0.1.0"
description = "%s"

[skill.classification]
categories = []
tags = []
`, name, owner, description)

	if err := os.WriteFile(tomlPath, []byte(skillToml), 0o644); err != nil {
		return skillerr.New(skillerr.KindScaffold, tomlPath, err)
	}

	skillMD := fmt.Sprintf("# %s\n\n%s\n", titleCase(name), description)
	if err := os.WriteFile(mdPath, []byte(skillMD), 0o644); err != nil {
		return skillerr.New(skillerr.KindScaffold, mdPath, err)
	}

	return nil
}

// Registry initializes a new git-backed skill registry at path.
func Registry(path, name string) error {
	return registrymerge.InitRegistry(path, name)
}

// Project writes a minimal skillet.toml describing a single-skill
// project rooted at dir. Fails if skillet.toml already exists.
func Project(dir, name, description string) error {
	path := filepath.Join(dir, "skillet.toml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	manifest := project.SkilletToml{
		Project: &project.ProjectSection{
			Name:        name,
			Description: description,
		},
		Skill: &project.SkillSection{
			Name:        name,
			Version:     "0.1.0",
			Description: description,
		},
	}

	content, err := toml.Marshal(manifest)
	if err != nil {
		return skillerr.New(skillerr.KindScaffold, "", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return skillerr.New(skillerr.KindScaffold, dir, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return skillerr.New(skillerr.KindScaffold, path, err)
	}

	mdPath := filepath.Join(dir, "SKILL.md")
	if _, err := os.Stat(mdPath); err != nil {
		skillMD := fmt.Sprintf("# %s\n\n%s\n", titleCase(name), description)
		if err := os.WriteFile(mdPath, []byte(skillMD), 0o644); err != nil {
			return skillerr.New(skillerr.KindScaffold, mdPath, err)
		}
	}

	return nil
}

func titleCase(name string) string {
	runes := []rune(name)
	for i, r := range runes {
		if r == '-' || r == '_' {
			runes[i] = ' '
		}
	}
	out := string(runes)
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
