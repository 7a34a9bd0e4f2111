// Package project parses skillet.toml, the unified manifest that can
// describe a project, an inline skill, a multi-skill directory, or a
// registry in any combination, and loads the skills it embeds.
package project

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/runkids/skillhub/internal/registryfiles"
	"github.com/runkids/skillhub/internal/skillstate"
)

// SkilletToml is the top-level manifest parsed from skillet.toml. All
// sections are optional; the manifest's role is inferred from which
// are present.
type SkilletToml struct {
	Project  *ProjectSection  `toml:"project"`
	Skill    *SkillSection    `toml:"skill"`
	Skills   *SkillsSection   `toml:"skills"`
	Registry *RegistrySection `toml:"registry"`
}

// ProjectSection is project metadata: name, description, authors, etc.
type ProjectSection struct {
	Name        string          `toml:"name,omitempty"`
	Description string          `toml:"description,omitempty"`
	Repository  string          `toml:"repository,omitempty"`
	License     string          `toml:"license,omitempty"`
	Categories  []string        `toml:"categories,omitempty"`
	Tags        []string        `toml:"tags,omitempty"`
	Authors     []ProjectAuthor `toml:"authors,omitempty"`
	AgentsMD    string          `toml:"agents_md,omitempty"`
}

// ProjectAuthor is a project author entry.
type ProjectAuthor struct {
	Name   string `toml:"name,omitempty"`
	Email  string `toml:"email,omitempty"`
	Github string `toml:"github,omitempty"`
}

// SkillSection describes a single inline skill: the project root (or a
// specified path) contains a SKILL.md that is the skill prompt.
type SkillSection struct {
	Name        string   `toml:"name,omitempty"`
	Version     string   `toml:"version,omitempty"`
	Description string   `toml:"description,omitempty"`
	Categories  []string `toml:"categories,omitempty"`
	Tags        []string `toml:"tags,omitempty"`
	Path        string   `toml:"path,omitempty"`
}

// SkillsSection points to a directory of skill subdirectories, each
// with at least a SKILL.md file.
type SkillsSection struct {
	Path    string   `toml:"path,omitempty"`
	Members []string `toml:"members,omitempty"`
}

// ResolvedPath returns the skills directory path, defaulting to
// ".skillet".
func (s SkillsSection) ResolvedPath() string {
	if s.Path == "" {
		return ".skillet"
	}
	return s.Path
}

// RegistrySection mirrors skillstate.RegistryInfo so registry loading
// can consume it directly via IntoRegistryConfig.
type RegistrySection struct {
	Name        string                         `toml:"name"`
	Version     uint32                         `toml:"version"`
	Description string                         `toml:"description,omitempty"`
	Maintainer  *skillstate.RegistryMaintainer `toml:"maintainer,omitempty"`
	URLs        *skillstate.RegistryURLs       `toml:"urls,omitempty"`
	Auth        *skillstate.RegistryAuth       `toml:"auth,omitempty"`
	Suggests    []skillstate.RegistrySuggestion `toml:"suggests,omitempty"`
	Defaults    *skillstate.RegistryDefaults   `toml:"defaults,omitempty"`
}

// ManifestRole is what role a manifest serves, inferred from which
// sections are present.
type ManifestRole int

const (
	RoleRegistry ManifestRole = iota
	RoleSingleSkill
	RoleMultiSkill
	RoleProjectOnly
)

// Role determines what role m serves. Priority: skill/skills >
// registry > project-only.
func (m *SkilletToml) Role() ManifestRole {
	switch {
	case m.Skill != nil:
		return RoleSingleSkill
	case m.Skills != nil:
		return RoleMultiSkill
	case m.Registry != nil:
		return RoleRegistry
	default:
		return RoleProjectOnly
	}
}

// IntoRegistryConfig converts the [registry] section into a
// skillstate.RegistryConfig, or nil if there is none.
func (m *SkilletToml) IntoRegistryConfig() *skillstate.RegistryConfig {
	reg := m.Registry
	if reg == nil {
		return nil
	}
	version := reg.Version
	if version == 0 {
		version = 1
	}
	return &skillstate.RegistryConfig{
		Registry: skillstate.RegistryInfo{
			Name:        reg.Name,
			Version:     version,
			Description: reg.Description,
			Maintainer:  reg.Maintainer,
			URLs:        reg.URLs,
			Auth:        reg.Auth,
			Suggests:    reg.Suggests,
			Defaults:    reg.Defaults,
		},
	}
}

// LoadSkilletToml loads and parses skillet.toml from dir. Returns
// (nil, nil) if the file does not exist.
func LoadSkilletToml(dir string) (*SkilletToml, error) {
	path := filepath.Join(dir, "skillet.toml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m SkilletToml
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &m, nil
}

// FindSkilletToml walks up from start looking for a directory
// containing skillet.toml, the way git finds .git/. Returns "" if
// none is found before the filesystem root.
func FindSkilletToml(start string) string {
	current := start
	for {
		if info, err := os.Stat(filepath.Join(current, "skillet.toml")); err == nil && !info.IsDir() {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// Frontmatter is parsed YAML frontmatter from a SKILL.md file. Many
// npm-style skill repos store metadata this way instead of skill.toml.
type Frontmatter struct {
	Name        string
	Description string
	Version     string
	License     string
	Author      string
	Tags        []string
}

// ParseFrontmatter parses simple key: value YAML frontmatter from
// skillMD with a line-by-line scanner, matching the pattern used in the
// validate package; only a tags value is handed to yaml.v3 (see
// parseInlineTagList). Returns nil if the
// content doesn't open with a "---" delimiter.
func ParseFrontmatter(skillMD string) *Frontmatter {
	lines := strings.Split(skillMD, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil
	}

	var fm Frontmatter
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			return &fm
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		switch key {
		case "name":
			fm.Name = value
		case "description":
			fm.Description = value
		case "version":
			fm.Version = value
		case "license":
			fm.License = value
		case "author":
			fm.Author = value
		case "tags":
			fm.Tags = parseInlineTagList(value)
		}
	}

	// Reached end of file without a closing "---": not frontmatter.
	return nil
}

// parseInlineTagList parses a frontmatter tags value, which may be a
// YAML flow sequence ("[a, b, c]") or a bare comma-separated list
// ("a, b, c"). Flow sequences are decoded with yaml.v3 since they're
// valid YAML on their own; the bare form isn't, so it falls back to a
// manual split.
func parseInlineTagList(value string) []string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var tags []string
		if err := yaml.Unmarshal([]byte(trimmed), &tags); err == nil {
			return tags
		}
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	var tags []string
	for _, t := range strings.Split(trimmed, ",") {
		t = unquote(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// InferMetadata infers skill metadata from directory context when
// skill.toml is absent: the directory name becomes the skill name,
// and owner resolves from manifest authors, git remote, or the parent
// directory name. manifest may be nil.
func InferMetadata(skillDir, skillMD string, manifest *SkilletToml) skillstate.SkillMetadata {
	frontmatter := ParseFrontmatter(skillMD)
	name := filepath.Base(skillDir)
	if name == "" || name == "." {
		name = "unknown"
	}

	owner := inferOwner(skillDir, manifest)

	description := ""
	if frontmatter != nil {
		description = frontmatter.Description
	}
	if description == "" {
		description = extractDescription(skillMD)
	}

	version := ""
	if frontmatter != nil {
		version = frontmatter.Version
	}
	if version == "" {
		version = "0.1.0"
	}

	var license string
	if manifest != nil && manifest.Project != nil {
		license = manifest.Project.License
	}
	if license == "" && frontmatter != nil {
		license = frontmatter.License
	}

	var author *skillstate.AuthorInfo
	if frontmatter != nil && frontmatter.Author != "" {
		author = &skillstate.AuthorInfo{Name: frontmatter.Author}
	}

	var categories, tags []string
	if manifest != nil {
		if manifest.Project != nil {
			categories = manifest.Project.Categories
			tags = manifest.Project.Tags
		}
		if len(tags) == 0 && frontmatter != nil {
			tags = frontmatter.Tags
		}
	} else if frontmatter != nil {
		tags = frontmatter.Tags
	}

	var classification *skillstate.Classification
	if len(categories) > 0 || len(tags) > 0 {
		classification = &skillstate.Classification{Categories: categories, Tags: tags}
	}

	return skillstate.SkillMetadata{
		Skill: skillstate.SkillInfo{
			Name:           name,
			Owner:          owner,
			Version:        version,
			Description:    description,
			License:        license,
			Author:         author,
			Classification: classification,
		},
	}
}

// inferOwner resolves an owner for skillDir: manifest authors' github
// handle, then the git remote origin, then the parent directory name.
func inferOwner(skillDir string, manifest *SkilletToml) string {
	if manifest != nil && manifest.Project != nil && len(manifest.Project.Authors) > 0 {
		if gh := manifest.Project.Authors[0].Github; gh != "" {
			return gh
		}
	}

	if owner := OwnerFromGitRemote(skillDir); owner != "" {
		return owner
	}

	parent := filepath.Base(filepath.Dir(skillDir))
	if parent == "" || parent == "." {
		return "unknown"
	}
	return parent
}

// OwnerFromGitRemote extracts the repository owner from dir's git
// remote origin URL, handling both "git@github.com:owner/repo.git"
// and "https://github.com/owner/repo.git" forms. Returns "" if dir
// has no git remote or the URL can't be parsed.
func OwnerFromGitRemote(dir string) string {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	url := strings.TrimSpace(string(out))
	var pathPart string
	if rest, ok := strings.CutPrefix(url, "git@"); ok {
		_, p, ok := strings.Cut(rest, ":")
		if !ok {
			return ""
		}
		pathPart = p
	} else {
		idx := strings.LastIndex(url, "://")
		if idx < 0 {
			return ""
		}
		rest := url[idx+3:]
		_, p, ok := strings.Cut(rest, "/")
		if !ok {
			return ""
		}
		pathPart = p
	}

	pathPart = strings.TrimSuffix(pathPart, ".git")
	var segments []string
	for _, s := range strings.Split(pathPart, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}

// extractDescription takes the first non-empty, non-heading line
// outside any frontmatter block, truncated to 200 characters. Falls
// back to "Embedded skill" if skillMD has no such line.
func extractDescription(skillMD string) string {
	inFrontmatter := false
	for _, line := range strings.Split(skillMD, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			inFrontmatter = !inFrontmatter
			continue
		}
		if inFrontmatter {
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > 200 {
			return string(runes[:200])
		}
		return trimmed
	}
	return "Embedded skill"
}

// LoadEmbeddedSkills loads the skills embedded in a project with a
// skillet.toml manifest: the inline [skill] section (if any) and
// every member of the [skills] directory (if any). Each entry is
// tagged SourceEmbedded.
func LoadEmbeddedSkills(projectRoot string, manifest *SkilletToml) *skillstate.SkillIndex {
	index := skillstate.NewSkillIndex()

	projectName := ""
	if manifest.Project != nil {
		projectName = manifest.Project.Name
	}
	if projectName == "" {
		projectName = filepath.Base(projectRoot)
	}
	if projectName == "" || projectName == "." {
		projectName = "unknown"
	}

	if manifest.Skill != nil {
		skillPath := projectRoot
		if manifest.Skill.Path != "" {
			skillPath = filepath.Join(projectRoot, manifest.Skill.Path)
		}

		entry, err := buildEmbeddedEntry(skillPath, manifest.Skill, manifest, projectName)
		if err != nil {
			pterm.Warning.Printfln("failed to load embedded inline skill at %s: %v", skillPath, err)
		} else {
			pterm.Debug.Printfln("loaded embedded skill %q (project %s)", entry.Name, projectName)
			index.Skills[skillstate.SkillKey{Owner: entry.Owner, Name: entry.Name}] = entry
		}
	}

	if manifest.Skills != nil {
		skillsDir := filepath.Join(projectRoot, manifest.Skills.ResolvedPath())
		if info, err := os.Stat(skillsDir); err == nil && info.IsDir() {
			loadSkillsDir(skillsDir, manifest.Skills, manifest, projectName, index)
		} else {
			pterm.Debug.Printfln("skills directory %s not found, skipping", skillsDir)
		}
	}

	return index
}

func buildEmbeddedEntry(skillPath string, section *SkillSection, manifest *SkilletToml, projectName string) (*skillstate.SkillEntry, error) {
	mdPath := filepath.Join(skillPath, "SKILL.md")
	raw, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, err
	}
	skillMD := string(raw)
	if strings.TrimSpace(skillMD) == "" {
		return nil, fmt.Errorf("SKILL.md is empty at %s", skillPath)
	}

	name := section.Name
	if name == "" && manifest.Project != nil {
		name = manifest.Project.Name
	}
	if name == "" {
		name = filepath.Base(skillPath)
	}

	owner := inferOwner(skillPath, manifest)

	description := section.Description
	if description == "" && manifest.Project != nil {
		description = manifest.Project.Description
	}
	if description == "" {
		description = extractDescription(skillMD)
	}

	version := section.Version
	if version == "" {
		version = "0.1.0"
	}

	categories := section.Categories
	if categories == nil && manifest.Project != nil {
		categories = manifest.Project.Categories
	}
	tags := section.Tags
	if tags == nil && manifest.Project != nil {
		tags = manifest.Project.Tags
	}

	var classification *skillstate.Classification
	if len(categories) > 0 || len(tags) > 0 {
		classification = &skillstate.Classification{Categories: categories, Tags: tags}
	}

	files, err := registryfiles.LoadExtraFiles(skillPath)
	if err != nil {
		files = nil
	}

	var license string
	if manifest.Project != nil {
		license = manifest.Project.License
	}

	metadata := skillstate.SkillMetadata{
		Skill: skillstate.SkillInfo{
			Name:           name,
			Owner:          owner,
			Version:        version,
			Description:    description,
			License:        license,
			Classification: classification,
		},
	}

	return &skillstate.SkillEntry{
		Owner: owner,
		Name:  name,
		Source: skillstate.SkillSource{
			Kind:    skillstate.SourceEmbedded,
			Project: projectName,
			Path:    skillPath,
		},
		Versions: []*skillstate.SkillVersion{{
			Version:    version,
			Metadata:   metadata,
			SkillMD:    skillMD,
			Files:      files,
			HasContent: true,
		}},
	}, nil
}

func buildEmbeddedEntryFromDir(skillDir string, manifest *SkilletToml, projectName string) (*skillstate.SkillEntry, error) {
	mdPath := filepath.Join(skillDir, "SKILL.md")
	raw, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, err
	}
	skillMD := string(raw)
	if strings.TrimSpace(skillMD) == "" {
		return nil, fmt.Errorf("SKILL.md is empty at %s", skillDir)
	}

	frontmatter := ParseFrontmatter(skillMD)
	name := filepath.Base(skillDir)
	owner := inferOwner(skillDir, manifest)

	description := ""
	if frontmatter != nil {
		description = frontmatter.Description
	}
	if description == "" {
		description = extractDescription(skillMD)
	}

	version := ""
	if frontmatter != nil {
		version = frontmatter.Version
	}
	if version == "" {
		version = "0.1.0"
	}

	var license string
	if manifest.Project != nil {
		license = manifest.Project.License
	}
	if license == "" && frontmatter != nil {
		license = frontmatter.License
	}

	var author *skillstate.AuthorInfo
	if frontmatter != nil && frontmatter.Author != "" {
		author = &skillstate.AuthorInfo{Name: frontmatter.Author}
	}

	var categories, tags []string
	if manifest.Project != nil {
		categories = manifest.Project.Categories
		tags = manifest.Project.Tags
	}
	if len(tags) == 0 && frontmatter != nil {
		tags = frontmatter.Tags
	}

	var classification *skillstate.Classification
	if len(categories) > 0 || len(tags) > 0 {
		classification = &skillstate.Classification{Categories: categories, Tags: tags}
	}

	skillTomlRaw, _ := os.ReadFile(filepath.Join(skillDir, "skill.toml"))

	files, err := registryfiles.LoadExtraFiles(skillDir)
	if err != nil {
		files = nil
	}

	metadata := skillstate.SkillMetadata{
		Skill: skillstate.SkillInfo{
			Name:           name,
			Owner:          owner,
			Version:        version,
			Description:    description,
			License:        license,
			Author:         author,
			Classification: classification,
		},
	}

	return &skillstate.SkillEntry{
		Owner: owner,
		Name:  name,
		Source: skillstate.SkillSource{
			Kind:    skillstate.SourceEmbedded,
			Project: projectName,
			Path:    skillDir,
		},
		Versions: []*skillstate.SkillVersion{{
			Version:      version,
			Metadata:     metadata,
			SkillMD:      skillMD,
			SkillTomlRaw: string(skillTomlRaw),
			Files:        files,
			HasContent:   true,
		}},
	}, nil
}

func loadSkillsDir(skillsDir string, section *SkillsSection, manifest *SkilletToml, projectName string, index *skillstate.SkillIndex) {
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		pterm.Warning.Printfln("cannot read skills directory %s: %v", skillsDir, err)
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	members := make(map[string]bool, len(section.Members))
	for _, m := range section.Members {
		members[m] = true
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirName := entry.Name()
		if strings.HasPrefix(dirName, ".") {
			continue
		}
		if len(section.Members) > 0 && !members[dirName] {
			continue
		}

		path := filepath.Join(skillsDir, dirName)
		if info, err := os.Stat(filepath.Join(path, "SKILL.md")); err != nil || info.IsDir() {
			continue
		}

		built, err := buildEmbeddedEntryFromDir(path, manifest, projectName)
		if err != nil {
			pterm.Warning.Printfln("failed to load embedded skill at %s: %v", path, err)
			continue
		}
		pterm.Debug.Printfln("loaded embedded skill %q (project %s)", built.Name, projectName)
		index.Skills[skillstate.SkillKey{Owner: built.Owner, Name: built.Name}] = built
	}
}
