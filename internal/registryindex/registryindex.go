// Package registryindex walks a local registry directory tree and
// builds a skillstate.SkillIndex from the skill directories it finds.
// It supports a flat owner/skill layout, nested grouping directories,
// an npm-style skillet.toml bridge, and a flat-repo fallback for
// external repos that don't nest by owner at all.
package registryindex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"

	"github.com/runkids/skillhub/internal/project"
	"github.com/runkids/skillhub/internal/registryfiles"
	"github.com/runkids/skillhub/internal/skillhash"
	"github.com/runkids/skillhub/internal/skillstate"
	"github.com/runkids/skillhub/internal/validate"
)

// maxNestingDepth bounds how many grouping-directory levels below an
// owner are searched for skill directories, guarding against runaway
// recursion on malformed registry trees.
const maxNestingDepth = 5

// LoadConfig loads registry configuration from registryPath's
// skillet.toml [registry] section, or sensible defaults if absent.
func LoadConfig(registryPath string) (skillstate.RegistryConfig, error) {
	manifest, err := project.LoadSkilletToml(registryPath)
	if err != nil {
		return skillstate.RegistryConfig{}, err
	}
	if manifest != nil {
		if cfg := manifest.IntoRegistryConfig(); cfg != nil {
			pterm.Info.Printfln("loaded registry config %q from skillet.toml", cfg.Registry.Name)
			return *cfg, nil
		}
	}
	pterm.Debug.Printfln("no skillet.toml [registry] section found, using defaults")
	return skillstate.DefaultRegistryConfig(), nil
}

// LoadIndex loads a skill index from a registry directory, trying in
// order: an npm-style skillet.toml bridge, the owner/skill (optionally
// nested) walk, then a flat-repo fallback if that walk finds nothing.
func LoadIndex(registryPath string) (*skillstate.SkillIndex, error) {
	index := skillstate.NewSkillIndex()

	info, err := os.Stat(registryPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("registry path %s does not exist or is not a directory", registryPath)
	}

	manifest, err := project.LoadSkilletToml(registryPath)
	if err != nil {
		return nil, err
	}
	if manifest != nil && (manifest.Skill != nil || manifest.Skills != nil) {
		pterm.Info.Printfln("loading npm-style skill repo via skillet.toml manifest at %s", registryPath)
		embedded := project.LoadEmbeddedSkills(registryPath, manifest)
		for _, entry := range embedded.Skills {
			if v := entry.Latest(); v != nil && v.Metadata.Skill.Classification != nil {
				for _, cat := range v.Metadata.Skill.Classification.Categories {
					index.Categories[cat]++
				}
			}
		}
		index.Skills = embedded.Skills
		return index, nil
	}

	ownerEntries, err := os.ReadDir(registryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", registryPath, err)
	}
	var owners []os.DirEntry
	for _, e := range ownerEntries {
		if e.IsDir() {
			owners = append(owners, e)
		}
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Name() < owners[j].Name() })

	for _, ownerEntry := range owners {
		ownerName := ownerEntry.Name()
		if strings.HasPrefix(ownerName, ".") {
			continue
		}
		ownerPath := filepath.Join(registryPath, ownerName)

		for _, skillDir := range findSkillDirs(ownerPath, maxNestingDepth) {
			relFromOwner, err := filepath.Rel(ownerPath, skillDir)
			if err != nil {
				relFromOwner = filepath.Base(skillDir)
			}
			skillName := filepath.Base(skillDir)

			var registryPathValue string
			depth := len(strings.Split(filepath.ToSlash(relFromOwner), "/"))
			if depth > 1 {
				full := filepath.Join(ownerName, relFromOwner)
				registryPathValue = filepath.ToSlash(full)
			}

			entry, err := loadSkill(ownerName, skillName, skillDir)
			if err != nil {
				pterm.Warning.Printfln("skipping skill %s/%s with invalid metadata: %v", ownerName, skillName, err)
				continue
			}

			key := skillstate.SkillKey{Owner: ownerName, Name: skillName}
			if existing, ok := index.Skills[key]; ok {
				pterm.Warning.Printfln("duplicate skill %s/%s (existing path %q, new path %q), keeping first",
					ownerName, skillName, existing.RegistryPath, registryPathValue)
				continue
			}

			entry.RegistryPath = registryPathValue
			if v := entry.Latest(); v != nil && v.Metadata.Skill.Classification != nil {
				for _, cat := range v.Metadata.Skill.Classification.Categories {
					index.Categories[cat]++
				}
			}
			index.Skills[key] = entry
		}
	}

	// Flat-repo fallback: external repos use skill-name/SKILL.md without
	// owner nesting. Only tried when the owner/skill walk found nothing.
	if len(index.Skills) == 0 {
		flatSkills := findSkillDirs(registryPath, 0)
		if len(flatSkills) > 0 {
			gitRoot := findGitRoot(registryPath)
			if gitRoot == "" {
				gitRoot = registryPath
			}
			owner := project.OwnerFromGitRemote(gitRoot)
			if owner == "" {
				owner = filepath.Base(registryPath)
			}

			pterm.Info.Printfln("flat-repo fallback: loading %d skills without owner nesting (owner %q)", len(flatSkills), owner)

			for _, skillDir := range flatSkills {
				skillName := filepath.Base(skillDir)
				entry, err := loadSkill(owner, skillName, skillDir)
				if err != nil {
					pterm.Warning.Printfln("flat fallback: skipping skill %s with invalid metadata: %v", skillName, err)
					continue
				}

				key := skillstate.SkillKey{Owner: owner, Name: skillName}
				if _, ok := index.Skills[key]; ok {
					continue
				}
				if v := entry.Latest(); v != nil && v.Metadata.Skill.Classification != nil {
					for _, cat := range v.Metadata.Skill.Classification.Categories {
						index.Categories[cat]++
					}
				}
				entry.Source = skillstate.SkillSource{Kind: skillstate.SourceRegistry}
				index.Skills[key] = entry
			}
		}
	}

	pterm.Info.Printfln("loaded skill index: %d skills, %d categories", len(index.Skills), len(index.Categories))
	return index, nil
}

// findGitRoot walks up from start looking for a directory containing
// .git. Returns "" if none is found before the filesystem root.
func findGitRoot(start string) string {
	current := start
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// findSkillDirs recursively collects subdirectories of dir that
// contain skill.toml or SKILL.md, recursing into intermediate grouping
// directories up to remainingDepth levels. Hidden directories are
// always skipped.
func findSkillDirs(dir string, remainingDepth int) []string {
	var result []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result
	}

	var subdirs []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e)
		}
	}
	sort.Slice(subdirs, func(i, j int) bool { return subdirs[i].Name() < subdirs[j].Name() })

	for _, entry := range subdirs {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)
		hasToml := fileExists(filepath.Join(path, "skill.toml"))
		hasMD := fileExists(filepath.Join(path, "SKILL.md"))

		switch {
		case hasToml || hasMD:
			result = append(result, path)
		case remainingDepth > 0:
			result = append(result, findSkillDirs(path, remainingDepth-1)...)
		default:
			pterm.Debug.Printfln("skipping %s: max nesting depth reached", path)
		}
	}

	return result
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadSkill loads a single skill from dir, using strict validation
// when skill.toml is present or lenient (zero-config) validation for
// SKILL.md-only directories, then layers on registry checks: owner and
// name must match the directory structure, and versions.toml (if
// present) drives multi-version loading.
func loadSkill(owner, name, dir string) (*skillstate.SkillEntry, error) {
	hasSkillToml := fileExists(filepath.Join(dir, "skill.toml"))

	var validated *validate.Result
	var err error
	if hasSkillToml {
		validated, err = validate.Validate(dir)
	} else {
		validated, err = validate.ValidateLenient(dir, nil)
	}
	if err != nil {
		return nil, err
	}

	if hasSkillToml {
		if validated.Owner != owner {
			return nil, fmt.Errorf("owner mismatch: skill.toml says %q but directory is %q", validated.Owner, owner)
		}
		if validated.Name != name {
			return nil, fmt.Errorf("name mismatch: skill.toml says %q but directory is %q", validated.Name, name)
		}
	}

	versionsPath := filepath.Join(dir, "versions.toml")
	var versions []*skillstate.SkillVersion
	if fileExists(versionsPath) {
		versions, err = loadVersionsManifest(versionsPath, &validated.Metadata)
		if err != nil {
			return nil, err
		}
	} else {
		versions = []*skillstate.SkillVersion{{
			Version:      validated.Version,
			Metadata:     validated.Metadata,
			SkillMD:      validated.SkillMD,
			SkillTomlRaw: validated.SkillTomlRaw,
			Files:        validated.Files,
			HasContent:   true,
			ContentHash:  validated.Hashes.Composite,
			IntegrityOK:  validated.ManifestOK,
		}}
	}

	return &skillstate.SkillEntry{
		Owner:    owner,
		Name:     name,
		Versions: versions,
	}, nil
}

// loadVersionsManifest parses versions.toml and builds the version
// list, oldest first. Only the last entry (the current version) gets
// full content loaded from disk with hashes computed and verified;
// earlier entries are metadata-only placeholders with HasContent
// false.
func loadVersionsManifest(path string, currentMetadata *skillstate.SkillMetadata) ([]*skillstate.SkillVersion, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var manifest skillstate.VersionsManifest
	if err := toml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(manifest.Versions) == 0 {
		return nil, fmt.Errorf("%s has no entries", path)
	}

	last := manifest.Versions[len(manifest.Versions)-1]
	if last.Version != currentMetadata.Skill.Version {
		return nil, fmt.Errorf("version mismatch: last entry in versions.toml is %q but skill.toml says %q",
			last.Version, currentMetadata.Skill.Version)
	}

	skillDir := filepath.Dir(path)
	tomlPath := filepath.Join(skillDir, "skill.toml")
	mdPath := filepath.Join(skillDir, "SKILL.md")

	rawToml, err := os.ReadFile(tomlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", tomlPath, err)
	}
	rawMD, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", mdPath, err)
	}
	skillTomlRaw := string(rawToml)
	skillMD := string(rawMD)

	files, err := registryfiles.LoadExtraFiles(skillDir)
	if err != nil {
		return nil, err
	}

	versions := make([]*skillstate.SkillVersion, 0, len(manifest.Versions))
	total := len(manifest.Versions)

	for i, record := range manifest.Versions {
		isLast := i == total-1

		if isLast {
			extra := make([]skillhash.ExtraFile, 0, len(files))
			for p, f := range files {
				extra = append(extra, skillhash.ExtraFile{Path: p, Content: f.Content})
			}
			computed := skillhash.ComputeHashes(skillTomlRaw, skillMD, extra)
			contentHash, integrityOK := verifyManifest(skillDir, computed)

			versions = append(versions, &skillstate.SkillVersion{
				Version:      record.Version,
				Metadata:     *currentMetadata,
				SkillMD:      skillMD,
				SkillTomlRaw: skillTomlRaw,
				Yanked:       record.Yanked,
				Files:        files,
				Published:    record.Published,
				HasContent:   true,
				ContentHash:  contentHash,
				IntegrityOK:  integrityOK,
			})
			continue
		}

		placeholder := skillstate.SkillMetadata{
			Skill: skillstate.SkillInfo{
				Name:        currentMetadata.Skill.Name,
				Owner:       currentMetadata.Skill.Owner,
				Version:     record.Version,
				Description: currentMetadata.Skill.Description,
			},
		}
		versions = append(versions, &skillstate.SkillVersion{
			Version:    record.Version,
			Metadata:   placeholder,
			Yanked:     record.Yanked,
			Published:  record.Published,
			HasContent: false,
		})
	}

	return versions, nil
}

// verifyManifest reads and verifies MANIFEST.sha256 against computed
// hashes. integrityOK is nil if no manifest exists, true if verified,
// false on mismatch (each mismatch is logged).
func verifyManifest(skillDir string, computed skillhash.ContentHashes) (string, *bool) {
	manifestPath := filepath.Join(skillDir, "MANIFEST.sha256")
	contentHash := computed.Composite

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return contentHash, nil
	}

	expected, err := skillhash.ParseManifest(string(raw))
	if err != nil {
		pterm.Warning.Printfln("failed to parse %s, skipping verification: %v", manifestPath, err)
		return contentHash, nil
	}

	mismatches := skillhash.Verify(computed, expected)
	if len(mismatches) == 0 {
		ok := true
		return contentHash, &ok
	}
	for _, m := range mismatches {
		pterm.Warning.Printfln("content integrity check failed at %s: %s", manifestPath, m)
	}
	ok := false
	return contentHash, &ok
}
