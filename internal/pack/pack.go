// Package pack writes the on-disk artifacts that turn a validated
// skillpack directory into a publishable one: MANIFEST.sha256 and an
// appended versions.toml history entry. `skillhub publish` is pack
// plus a git commit+push of the registry checkout; the publish-only
// git step lives in the CLI layer since it is out of core scope.
package pack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillhash"
	"github.com/runkids/skillhub/internal/skillstate"
	"github.com/runkids/skillhub/internal/validate"
)

// Result describes what a pack operation did.
type Result struct {
	ManifestPath     string
	VersionsPath     string
	Version          string
	NewVersionAdded  bool
	ManifestUnchanged bool
}

// Pack validates the skill directory at dir, writes MANIFEST.sha256,
// and appends a versions.toml entry if the current skill.toml version
// is new. Re-running pack on an unchanged directory is idempotent: the
// manifest content is unchanged and no new version entry is added.
func Pack(dir string) (*Result, error) {
	result, err := validate.Validate(dir)
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(dir, "MANIFEST.sha256")
	newManifest := skillhash.FormatManifest(result.Hashes)

	manifestUnchanged := false
	if existing, err := os.ReadFile(manifestPath); err == nil {
		manifestUnchanged = string(existing) == newManifest
	}

	if err := os.WriteFile(manifestPath, []byte(newManifest), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", manifestPath, err)
	}

	versionsPath := filepath.Join(dir, "versions.toml")
	versionsManifest, err := loadVersionsManifest(versionsPath)
	if err != nil {
		return nil, err
	}

	newVersionAdded := false
	if len(versionsManifest.Versions) == 0 || versionsManifest.Versions[len(versionsManifest.Versions)-1].Version != result.Version {
		versionsManifest.Versions = append(versionsManifest.Versions, skillstate.VersionRecord{
			Version:   result.Version,
			Published: skillconfig.NowISO8601(),
			Yanked:    false,
		})
		newVersionAdded = true

		content, err := toml.Marshal(versionsManifest)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize versions.toml: %w", err)
		}
		if err := os.WriteFile(versionsPath, content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", versionsPath, err)
		}
	}

	return &Result{
		ManifestPath:      manifestPath,
		VersionsPath:      versionsPath,
		Version:           result.Version,
		NewVersionAdded:   newVersionAdded,
		ManifestUnchanged: manifestUnchanged,
	}, nil
}

func loadVersionsManifest(path string) (skillstate.VersionsManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return skillstate.VersionsManifest{}, nil
		}
		return skillstate.VersionsManifest{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var manifest skillstate.VersionsManifest
	if err := toml.Unmarshal(raw, &manifest); err != nil {
		return skillstate.VersionsManifest{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return manifest, nil
}
