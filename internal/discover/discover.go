// Package discover auto-discovers skills already installed in local
// agent skill directories, independent of any registry. These become
// synthetic SkillEntry records merged into the index after registry
// skills, so a registry skill always wins on name collision.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/runkids/skillhub/internal/registryfiles"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillstate"
)

// LocalSkills scans every well-known agent skill directory, both
// global (e.g. ~/.claude/skills/) and project-local (e.g.
// .claude/skills/), and returns a synthetic index. Skills are keyed
// under owner "local"; the first platform scanned wins on a name
// collision.
func LocalSkills() *skillstate.SkillIndex {
	index := skillstate.NewSkillIndex()

	for _, target := range skillconfig.AllTargets {
		platform := target.String()

		globalDir := filepath.Dir(target.GlobalDir("x"))
		scanSkillsDir(globalDir, platform, index)

		projectDir := filepath.Dir(target.ProjectDir("x"))
		scanSkillsDir(projectDir, platform, index)
	}

	return index
}

func scanSkillsDir(skillsDir, platform string, index *skillstate.SkillIndex) {
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirName := entry.Name()
		if strings.HasPrefix(dirName, ".") {
			continue
		}

		path := filepath.Join(skillsDir, dirName)
		if info, err := os.Stat(filepath.Join(path, "SKILL.md")); err != nil || info.IsDir() {
			continue
		}

		key := skillstate.SkillKey{Owner: "local", Name: dirName}
		if _, exists := index.Skills[key]; exists {
			continue
		}

		built, err := buildLocalEntry(dirName, path, platform)
		if err != nil {
			pterm.Debug.Printfln("skipping unreadable local skill %s at %s: %v", dirName, path, err)
			continue
		}
		pterm.Debug.Printfln("discovered local skill %q (platform %s) at %s", dirName, platform, path)
		index.Skills[key] = built
	}
}

func buildLocalEntry(name, path, platform string) (*skillstate.SkillEntry, error) {
	raw, err := os.ReadFile(filepath.Join(path, "SKILL.md"))
	if err != nil {
		return nil, err
	}
	skillMD := string(raw)
	description := extractDescription(skillMD)

	skillTomlRaw, _ := os.ReadFile(filepath.Join(path, "skill.toml"))

	files, err := registryfiles.LoadExtraFiles(path)
	if err != nil {
		files = nil
	}

	metadata := skillstate.SkillMetadata{
		Skill: skillstate.SkillInfo{
			Name:        name,
			Owner:       "local",
			Version:     "0.0.0",
			Description: description,
		},
	}

	return &skillstate.SkillEntry{
		Owner: "local",
		Name:  name,
		Source: skillstate.SkillSource{
			Kind:     skillstate.SourceLocal,
			Platform: platform,
			Path:     path,
		},
		Versions: []*skillstate.SkillVersion{{
			Version:      "0.0.0",
			Metadata:     metadata,
			SkillMD:      skillMD,
			SkillTomlRaw: string(skillTomlRaw),
			Files:        files,
			HasContent:   true,
		}},
	}, nil
}

// extractDescription takes the first non-empty, non-heading line,
// truncated to 200 characters. Falls back to "Local skill".
func extractDescription(skillMD string) string {
	for _, line := range strings.Split(skillMD, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > 200 {
			return string(runes[:200])
		}
		return trimmed
	}
	return "Local skill"
}
