// Package install writes a skill's files to agent target directories
// and records the result in the installation manifest.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/runkids/skillhub/internal/manifest"
	"github.com/runkids/skillhub/internal/registryfiles"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillhash"
	"github.com/runkids/skillhub/internal/skillstate"
)

// Options controls how a skill is installed.
type Options struct {
	Targets []skillconfig.InstallTarget
	Global  bool
	// Registry is the registry identifier recorded in the manifest: a
	// git URL for remotes, "local:<abs_path>" for local registries.
	Registry string
	// OnTargetStart, if set, is called before each target is written to
	// (in Targets order), so a caller can drive install-progress UI.
	OnTargetStart func(target skillconfig.InstallTarget)
}

// Result is the outcome of installing a skill to a single target.
type Result struct {
	Target       skillconfig.InstallTarget
	Path         string
	FilesWritten []string
}

// InstallSkill installs a skill to every target in options, upserting
// entries into m as it goes. It does not save m; the caller should
// save once after all installs complete.
func InstallSkill(owner, name string, version *skillstate.SkillVersion, options Options, m *manifest.Manifest) ([]Result, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current directory: %w", err)
	}
	checksum := skillhash.SHA256Hex(version.SkillMD)
	now := skillconfig.NowISO8601()

	var results []Result
	for _, target := range options.Targets {
		if options.OnTargetStart != nil {
			options.OnTargetStart(target)
		}

		relDir := target.ProjectDir(name)
		if options.Global {
			relDir = target.GlobalDir(name)
		}

		absDir := relDir
		if !filepath.IsAbs(relDir) {
			absDir = filepath.Join(cwd, relDir)
		}

		filesWritten, err := writeSkillToDir(version, absDir)
		if err != nil {
			return nil, err
		}

		m.Upsert(manifest.InstalledSkill{
			Owner:       owner,
			Name:        name,
			Version:     version.Version,
			Registry:    options.Registry,
			Checksum:    checksum,
			InstalledTo: absDir,
			InstalledAt: now,
		})

		results = append(results, Result{
			Target:       target,
			Path:         absDir,
			FilesWritten: filesWritten,
		})
	}

	return results, nil
}

// writeSkillToDir writes SKILL.md and any extra files (scripts/,
// references/, assets/, rules/, templates/) to dir, creating it if
// needed. It does not write skill.toml, MANIFEST.sha256, or
// versions.toml. Returns the sorted list of relative paths written.
func writeSkillToDir(version *skillstate.SkillVersion, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var written []string

	skillMDPath := filepath.Join(dir, "SKILL.md")
	if err := os.WriteFile(skillMDPath, []byte(version.SkillMD), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", skillMDPath, err)
	}
	written = append(written, "SKILL.md")

	extraDirs := make(map[string]bool, len(registryfiles.ExtraDirs))
	for _, d := range registryfiles.ExtraDirs {
		extraDirs[d] = true
	}

	for relPath, file := range version.Files {
		subdir, _, _ := strings.Cut(relPath, "/")
		if !extraDirs[subdir] {
			continue
		}

		targetPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if parent := filepath.Dir(targetPath); parent != "" {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", parent, err)
			}
		}

		if err := os.WriteFile(targetPath, []byte(file.Content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", targetPath, err)
		}
		written = append(written, relPath)
	}

	sort.Strings(written)
	return written, nil
}
