// Package validate performs standalone skillpack validation: checking
// that a skill directory contains a well-formed skill.toml and SKILL.md,
// computing content hashes, and verifying MANIFEST.sha256 if present.
// It backs `skillhub validate` and is called internally by the index
// loader when it ingests a skill directory.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/runkids/skillhub/internal/project"
	"github.com/runkids/skillhub/internal/registryfiles"
	"github.com/runkids/skillhub/internal/skillhash"
	"github.com/runkids/skillhub/internal/skillstate"
)

// Result is the outcome of validating a skillpack directory.
type Result struct {
	Owner        string
	Name         string
	Version      string
	Description  string
	Metadata     skillstate.SkillMetadata
	SkillMD      string
	SkillTomlRaw string
	Files        map[string]skillstate.SkillFile
	Hashes       skillhash.ContentHashes
	// ManifestOK is nil when no MANIFEST.sha256 is present, true when
	// verified, false on mismatch.
	ManifestOK *bool
	Warnings   []string
}

// Validate validates the skill directory dir in strict mode: skill.toml
// must exist and parse, SKILL.md must exist and be non-empty, required
// fields must be present and well-formed.
func Validate(dir string) (*Result, error) {
	var warnings []string

	tomlPath := filepath.Join(dir, "skill.toml")
	rawToml, err := os.ReadFile(tomlPath)
	if err != nil {
		return nil, fmt.Errorf("skill.toml not found in %s", dir)
	}
	skillTomlRaw := string(rawToml)

	var metadata skillstate.SkillMetadata
	if err := toml.Unmarshal(rawToml, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse skill.toml in %s: %w", dir, err)
	}

	mdPath := filepath.Join(dir, "SKILL.md")
	rawMD, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, fmt.Errorf("SKILL.md not found in %s", dir)
	}
	skillMD := string(rawMD)
	if strings.TrimSpace(skillMD) == "" {
		return nil, fmt.Errorf("SKILL.md is empty in %s", dir)
	}

	info := metadata.Skill
	if info.Name == "" || containsWhitespace(info.Name) {
		return nil, fmt.Errorf("invalid skill name %q: must be non-empty with no whitespace", info.Name)
	}
	if info.Owner == "" || containsWhitespace(info.Owner) {
		return nil, fmt.Errorf("invalid owner %q: must be non-empty with no whitespace", info.Owner)
	}
	if info.Version == "" || containsWhitespace(info.Version) {
		return nil, fmt.Errorf("invalid version %q: must be non-empty with no whitespace", info.Version)
	}
	if info.Description == "" {
		return nil, fmt.Errorf("description must not be empty")
	}

	files, err := registryfiles.LoadExtraFiles(dir)
	if err != nil {
		return nil, err
	}

	extra := make([]skillhash.ExtraFile, 0, len(files))
	for path, f := range files {
		extra = append(extra, skillhash.ExtraFile{Path: path, Content: f.Content})
	}
	hashes := skillhash.ComputeHashes(skillTomlRaw, skillMD, extra)

	manifestOK := verifyManifestIfPresent(dir, hashes, &warnings)

	checkFrontmatterConsistency(skillMD, info, &warnings)

	if info.Compatibility != nil {
		known := make(map[string]bool, len(skillstate.KnownCapabilities))
		for _, c := range skillstate.KnownCapabilities {
			known[c] = true
		}
		for _, cap := range info.Compatibility.RequiredCapabilities {
			if !known[cap] {
				warnings = append(warnings, fmt.Sprintf(
					"unknown capability %q. Known capabilities: %s",
					cap, strings.Join(skillstate.KnownCapabilities, ", ")))
			}
		}
	}

	return &Result{
		Owner:        info.Owner,
		Name:         info.Name,
		Version:      info.Version,
		Description:  info.Description,
		Metadata:     metadata,
		SkillMD:      skillMD,
		SkillTomlRaw: skillTomlRaw,
		Files:        files,
		Hashes:       hashes,
		ManifestOK:   manifestOK,
		Warnings:     warnings,
	}, nil
}

// ValidateLenient validates a SKILL.md-only directory (no skill.toml):
// zero-config mode for npm-style skill repos. Metadata is inferred from
// the directory name, YAML frontmatter, and manifest, the same way
// project.InferMetadata does for embedded skills. manifest may be nil.
func ValidateLenient(dir string, manifest *project.SkilletToml) (*Result, error) {
	mdPath := filepath.Join(dir, "SKILL.md")
	rawMD, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, fmt.Errorf("SKILL.md not found in %s", dir)
	}
	skillMD := string(rawMD)
	if strings.TrimSpace(skillMD) == "" {
		return nil, fmt.Errorf("SKILL.md is empty in %s", dir)
	}

	metadata := project.InferMetadata(dir, skillMD, manifest)
	info := metadata.Skill

	files, err := registryfiles.LoadExtraFiles(dir)
	if err != nil {
		return nil, err
	}

	extra := make([]skillhash.ExtraFile, 0, len(files))
	for path, f := range files {
		extra = append(extra, skillhash.ExtraFile{Path: path, Content: f.Content})
	}
	// No skill.toml exists in lenient mode; hash an empty string for it
	// so the composite hash still accounts for every file a strict
	// skillpack would hash.
	hashes := skillhash.ComputeHashes("", skillMD, extra)

	return &Result{
		Owner:        info.Owner,
		Name:         info.Name,
		Version:      info.Version,
		Description:  info.Description,
		Metadata:     metadata,
		SkillMD:      skillMD,
		SkillTomlRaw: "",
		Files:        files,
		Hashes:       hashes,
		ManifestOK:   nil,
	}, nil
}

func containsWhitespace(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

func verifyManifestIfPresent(dir string, computed skillhash.ContentHashes, warnings *[]string) *bool {
	manifestPath := filepath.Join(dir, "MANIFEST.sha256")
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil
	}

	expected, err := skillhash.ParseManifest(string(raw))
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("failed to parse MANIFEST.sha256: %v", err))
		return nil
	}

	mismatches := skillhash.Verify(computed, expected)
	ok := len(mismatches) == 0
	if !ok {
		for _, m := range mismatches {
			*warnings = append(*warnings, fmt.Sprintf("manifest mismatch: %s", m))
		}
	}
	return &ok
}

// checkFrontmatterConsistency warns (never fails) when SKILL.md's YAML
// frontmatter name/description diverge from skill.toml's.
func checkFrontmatterConsistency(skillMD string, info skillstate.SkillInfo, warnings *[]string) {
	trimmed := strings.TrimLeft(skillMD, " \t\r\n")
	if !strings.HasPrefix(trimmed, "---") {
		return
	}
	afterFirst := trimmed[3:]
	end := strings.Index(afterFirst, "---")
	if end < 0 {
		return
	}
	frontmatter := afterFirst[:end]

	for _, line := range strings.Split(frontmatter, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "name:"); ok {
			fmName := unquote(strings.TrimSpace(value))
			if fmName != info.Name {
				*warnings = append(*warnings, fmt.Sprintf(
					"SKILL.md frontmatter name %q differs from skill.toml name %q", fmName, info.Name))
			}
		}
		if value, ok := strings.CutPrefix(line, "description:"); ok {
			fmDesc := unquote(strings.TrimSpace(value))
			if !strings.HasPrefix(info.Description, fmDesc) &&
				!strings.HasPrefix(fmDesc, info.Description) &&
				fmDesc != info.Description {
				*warnings = append(*warnings,
					"SKILL.md frontmatter description differs from skill.toml description")
			}
		}
	}
}

func unquote(s string) string {
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, "'")
	return s
}
