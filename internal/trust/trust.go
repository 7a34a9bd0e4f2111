// Package trust implements the trust tiers and content-hash pinning
// that let skillhub distinguish registries the user trusts from
// unknown ones, and detect when an installed skill's content changes
// underneath a pin. State persists at
// ~/.config/skillhub/trust.toml.
package trust

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runkids/skillhub/internal/manifest"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillerr"
	"github.com/runkids/skillhub/internal/skillhash"
)

// Tier is the trust tier assigned to a registry during install.
type Tier int

const (
	// TierTrusted means the registry is explicitly trusted by the user.
	TierTrusted Tier = iota
	// TierReviewed means the skill has a pinned content hash from a
	// previous install.
	TierReviewed
	// TierUnknown means neither the registry is trusted nor the skill
	// is pinned.
	TierUnknown
)

func (t Tier) String() string {
	switch t {
	case TierTrusted:
		return "trusted"
	case TierReviewed:
		return "reviewed"
	default:
		return "unknown"
	}
}

// Registry is a registry the user has explicitly marked as trusted.
type Registry struct {
	Registry  string `toml:"registry"`
	TrustedAt string `toml:"trusted_at"`
	Note      string `toml:"note,omitempty"`
}

// Pin is a skill with a pinned content hash.
type Pin struct {
	Owner       string `toml:"owner"`
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Registry    string `toml:"registry"`
	ContentHash string `toml:"content_hash"`
	PinnedAt    string `toml:"pinned_at"`
}

// State is the persistent trust state: trusted registries and pinned
// skills.
type State struct {
	TrustedRegistries []Registry `toml:"trusted_registries"`
	PinnedSkills      []Pin      `toml:"pinned_skills"`
}

// Check is the result of evaluating trust for a skill install.
type Check struct {
	Tier Tier
	// PinnedHash is the previously pinned hash, if any.
	PinnedHash string
	HasPin     bool
	Reason     string
}

// Status is the outcome of auditing a single installed skill.
type Status int

const (
	StatusOK Status = iota
	StatusModified
	StatusUnpinned
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusModified:
		return "MODIFIED"
	case StatusUnpinned:
		return "unpinned"
	case StatusMissing:
		return "MISSING"
	default:
		return "unknown"
	}
}

// AuditResult is the result of auditing a single installed skill.
type AuditResult struct {
	Owner       string
	Name        string
	Version     string
	InstalledTo string
	Status      Status
}

// Path is the default trust state path: ~/.config/skillhub/trust.toml.
func Path() string {
	return filepath.Join(skillconfig.Dir(), "trust.toml")
}

// Load loads the trust state, returning empty state if the file is
// absent.
func Load() (*State, error) {
	return LoadFrom(Path())
}

// LoadFrom loads the trust state from a specific path.
func LoadFrom(path string) (*State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, skillerr.New(skillerr.KindTrust, path, err)
	}
	var s State
	if err := toml.Unmarshal(raw, &s); err != nil {
		return nil, skillerr.New(skillerr.KindTrust, path, err)
	}
	return &s, nil
}

// Save saves the trust state to the default path.
func (s *State) Save() error {
	return s.SaveTo(Path())
}

// SaveTo saves the trust state to a specific path.
func (s *State) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return skillerr.New(skillerr.KindTrust, dir, err)
		}
	}
	content, err := toml.Marshal(s)
	if err != nil {
		return skillerr.New(skillerr.KindTrust, "", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return skillerr.New(skillerr.KindTrust, path, err)
	}
	return nil
}

// AddRegistry adds a trusted registry. No-op if already present.
func (s *State) AddRegistry(registry, note string) {
	if s.IsTrusted(registry) {
		return
	}
	s.TrustedRegistries = append(s.TrustedRegistries, Registry{
		Registry:  registry,
		TrustedAt: skillconfig.NowISO8601(),
		Note:      note,
	})
}

// RemoveRegistry removes a trusted registry. Returns true if it was
// present.
func (s *State) RemoveRegistry(registry string) bool {
	before := len(s.TrustedRegistries)
	kept := s.TrustedRegistries[:0]
	for _, r := range s.TrustedRegistries {
		if r.Registry != registry {
			kept = append(kept, r)
		}
	}
	s.TrustedRegistries = kept
	return len(s.TrustedRegistries) < before
}

// IsTrusted reports whether registry is in the trusted set.
func (s *State) IsTrusted(registry string) bool {
	for _, r := range s.TrustedRegistries {
		if r.Registry == registry {
			return true
		}
	}
	return false
}

// PinSkill pins a skill's content hash, replacing any existing pin for
// the same owner/name.
func (s *State) PinSkill(owner, name, version, registry, contentHash string) {
	s.UnpinSkill(owner, name)
	s.PinnedSkills = append(s.PinnedSkills, Pin{
		Owner:       owner,
		Name:        name,
		Version:     version,
		Registry:    registry,
		ContentHash: contentHash,
		PinnedAt:    skillconfig.NowISO8601(),
	})
}

// UnpinSkill removes a pin. Returns true if it was present.
func (s *State) UnpinSkill(owner, name string) bool {
	before := len(s.PinnedSkills)
	kept := s.PinnedSkills[:0]
	for _, p := range s.PinnedSkills {
		if !(p.Owner == owner && p.Name == name) {
			kept = append(kept, p)
		}
	}
	s.PinnedSkills = kept
	return len(s.PinnedSkills) < before
}

// FindPin finds a pin by owner and name.
func (s *State) FindPin(owner, name string) (Pin, bool) {
	for _, p := range s.PinnedSkills {
		if p.Owner == owner && p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// CheckTrust evaluates trust for a skill install.
func CheckTrust(state *State, registryID, owner, name, contentHash string) Check {
	if state.IsTrusted(registryID) {
		pinnedHash := ""
		hasPin := false
		if pin, ok := state.FindPin(owner, name); ok {
			pinnedHash, hasPin = pin.ContentHash, true
		}
		return Check{
			Tier:       TierTrusted,
			PinnedHash: pinnedHash,
			HasPin:     hasPin,
			Reason:     fmt.Sprintf("registry '%s' is trusted", registryID),
		}
	}

	if pin, ok := state.FindPin(owner, name); ok {
		if pin.ContentHash == contentHash {
			return Check{
				Tier:       TierReviewed,
				PinnedHash: pin.ContentHash,
				HasPin:     true,
				Reason:     fmt.Sprintf("%s/%s pinned hash matches (v%s)", owner, name, pin.Version),
			}
		}
		return Check{
			Tier:       TierReviewed,
			PinnedHash: pin.ContentHash,
			HasPin:     true,
			Reason:     fmt.Sprintf("%s/%s content changed since pinned (was v%s)", owner, name, pin.Version),
		}
	}

	return Check{
		Tier:   TierUnknown,
		Reason: fmt.Sprintf("registry '%s' is not trusted and %s/%s is not pinned", registryID, owner, name),
	}
}

// Audit audits installed skills against the trust state. filterOwner
// and filterName, if non-empty, restrict the audit to matching skills.
func Audit(installed *manifest.Manifest, state *State, filterOwner, filterName string) []AuditResult {
	var results []AuditResult

	for _, skill := range installed.Skills {
		if filterOwner != "" && skill.Owner != filterOwner {
			continue
		}
		if filterName != "" && skill.Name != filterName {
			continue
		}

		var status Status
		if pin, ok := state.FindPin(skill.Owner, skill.Name); ok {
			content, err := os.ReadFile(filepath.Join(skill.InstalledTo, "SKILL.md"))
			switch {
			case err != nil:
				status = StatusMissing
			case skillhash.SHA256Hex(string(content)) == pin.ContentHash:
				status = StatusOK
			default:
				status = StatusModified
			}
		} else {
			status = StatusUnpinned
		}

		results = append(results, AuditResult{
			Owner:       skill.Owner,
			Name:        skill.Name,
			Version:     skill.Version,
			InstalledTo: skill.InstalledTo,
			Status:      status,
		})
	}

	return results
}

// HasProblems reports whether any audit result is Modified or Missing.
func HasProblems(results []AuditResult) bool {
	for _, r := range results {
		if r.Status == StatusModified || r.Status == StatusMissing {
			return true
		}
	}
	return false
}
