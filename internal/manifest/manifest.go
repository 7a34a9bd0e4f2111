// Package manifest tracks installed skills: which (skill, target) pairs
// are on disk, their version and checksum, persisted at
// ~/.config/skillhub/installed.toml.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillerr"
	"github.com/runkids/skillhub/internal/skillhash"
)

// Manifest is the installation manifest file.
type Manifest struct {
	Skills []InstalledSkill `toml:"skills"`
}

// InstalledSkill is a single installed skill entry.
type InstalledSkill struct {
	Owner       string `toml:"owner"`
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Registry    string `toml:"registry"`
	Checksum    string `toml:"checksum"`
	InstalledTo string `toml:"installed_to"`
	InstalledAt string `toml:"installed_at"`
}

// IntegrityStatus is the result of checking an installed skill's
// on-disk SKILL.md against its recorded checksum.
type IntegrityStatus int

const (
	IntegrityOK IntegrityStatus = iota
	IntegrityModified
	IntegrityMissing
)

func (s IntegrityStatus) String() string {
	switch s {
	case IntegrityOK:
		return "ok"
	case IntegrityModified:
		return "MODIFIED"
	case IntegrityMissing:
		return "MISSING"
	default:
		return "unknown"
	}
}

// Path is the default manifest file path.
func Path() string {
	return filepath.Join(skillconfig.Dir(), "installed.toml")
}

// Load loads the installation manifest, returning an empty one if the
// file is absent.
func Load() (*Manifest, error) {
	return LoadFrom(Path())
}

// LoadFrom loads the installation manifest from a specific path.
func LoadFrom(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, skillerr.New(skillerr.KindManifestRead, path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil, skillerr.New(skillerr.KindManifestParse, path, err)
	}
	return &m, nil
}

// Save saves the installation manifest to the default path.
func (m *Manifest) Save() error {
	return m.SaveTo(Path())
}

// SaveTo saves the installation manifest to a specific path.
func (m *Manifest) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return skillerr.New(skillerr.KindManifestWrite, dir, err)
		}
	}
	content, err := toml.Marshal(m)
	if err != nil {
		return skillerr.New(skillerr.KindManifestWrite, "", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return skillerr.New(skillerr.KindManifestWrite, path, err)
	}
	return nil
}

// Upsert adds or replaces an entry keyed by InstalledTo path.
func (m *Manifest) Upsert(skill InstalledSkill) {
	for i := range m.Skills {
		if m.Skills[i].InstalledTo == skill.InstalledTo {
			m.Skills[i] = skill
			return
		}
	}
	m.Skills = append(m.Skills, skill)
}

// Remove removes an entry by owner, name, and installed path. Returns
// true if an entry was found and removed.
func (m *Manifest) Remove(owner, name, path string) bool {
	before := len(m.Skills)
	kept := m.Skills[:0]
	for _, s := range m.Skills {
		if s.Owner == owner && s.Name == name && s.InstalledTo == path {
			continue
		}
		kept = append(kept, s)
	}
	m.Skills = kept
	return len(m.Skills) < before
}

// FindBySkill returns every installation of a skill by owner and name.
func (m *Manifest) FindBySkill(owner, name string) []InstalledSkill {
	var found []InstalledSkill
	for _, s := range m.Skills {
		if s.Owner == owner && s.Name == name {
			found = append(found, s)
		}
	}
	return found
}

// FindByPath returns the installation at path, if any.
func (m *Manifest) FindByPath(path string) (InstalledSkill, bool) {
	for _, s := range m.Skills {
		if s.InstalledTo == path {
			return s, true
		}
	}
	return InstalledSkill{}, false
}

// CheckIntegrity reads entry's installed SKILL.md and compares its
// checksum against the recorded value.
func CheckIntegrity(entry InstalledSkill) IntegrityStatus {
	content, err := os.ReadFile(filepath.Join(entry.InstalledTo, "SKILL.md"))
	if err != nil {
		return IntegrityMissing
	}
	if skillhash.SHA256Hex(string(content)) == entry.Checksum {
		return IntegrityOK
	}
	return IntegrityModified
}
