// Package skillstate defines the core in-memory data model shared by
// every other package: skills, their versions, where they came from,
// and the merged index that registry loading and search operate on.
package skillstate

import "sort"

// SourceKind distinguishes the three ways a skill can enter an index.
type SourceKind int

const (
	// SourceRegistry is a git-backed registry skill with a skill.toml.
	SourceRegistry SourceKind = iota
	// SourceLocal is auto-discovered from a local agent skills directory.
	SourceLocal
	// SourceEmbedded is embedded in a project via skillet.toml.
	SourceEmbedded
)

// SkillSource records where a skill was discovered from. This mirrors a
// Rust tagged union (Registry | Local{platform,path} | Embedded{project,path})
// as a Go struct matched on Kind, with Platform/Project/Path populated
// only for the non-Registry kinds.
type SkillSource struct {
	Kind     SourceKind
	Platform string // set for SourceLocal: agent platform, e.g. "claude"
	Project  string // set for SourceEmbedded: project name from the manifest
	Path     string // set for SourceLocal/SourceEmbedded: absolute on-disk path
}

// Label returns a human-readable source label, or "" for registry skills.
func (s SkillSource) Label() string {
	switch s.Kind {
	case SourceLocal:
		return "local (" + s.Platform + ")"
	case SourceEmbedded:
		return "embedded (" + s.Project + ")"
	default:
		return ""
	}
}

// HasPath reports whether the source carries an on-disk path (Local or
// Embedded); Registry skills do not.
func (s SkillSource) HasPath() bool {
	return s.Kind == SourceLocal || s.Kind == SourceEmbedded
}

// SkillIndex is the in-memory index of all skills across all registries,
// merged from one or more sources.
type SkillIndex struct {
	// Skills keyed by (owner, name).
	Skills map[SkillKey]*SkillEntry
	// Categories maps category name to skill count across the index.
	Categories map[string]int
}

// SkillKey identifies a skill by owner and name.
type SkillKey struct {
	Owner string
	Name  string
}

// NewSkillIndex returns an empty, ready-to-use index.
func NewSkillIndex() *SkillIndex {
	return &SkillIndex{
		Skills:     map[SkillKey]*SkillEntry{},
		Categories: map[string]int{},
	}
}

// Merge folds other into idx. Skills already present in idx are kept
// (first registry wins); new skills are added and their latest version's
// categories are counted.
func (idx *SkillIndex) Merge(other *SkillIndex) {
	for key, entry := range other.Skills {
		if _, exists := idx.Skills[key]; exists {
			continue
		}
		if v := entry.Latest(); v != nil && v.Metadata.Skill.Classification != nil {
			for _, cat := range v.Metadata.Skill.Classification.Categories {
				idx.Categories[cat]++
			}
		}
		idx.Skills[key] = entry
	}
}

// SkillEntry is a skill with all its versions.
type SkillEntry struct {
	Owner string
	Name  string
	// RegistryPath is the relative path from the registry root (e.g.
	// "acme/lang/java/maven-build"). Empty for flat skills at the
	// standard owner/name/ depth.
	RegistryPath string
	Versions     []*SkillVersion
	Source       SkillSource
}

// Latest returns the most recently added non-yanked version, or nil if
// the entry has no versions or all are yanked.
func (e *SkillEntry) Latest() *SkillVersion {
	for i := len(e.Versions) - 1; i >= 0; i-- {
		if !e.Versions[i].Yanked {
			return e.Versions[i]
		}
	}
	return nil
}

// SkillVersion is a single published version of a skill.
type SkillVersion struct {
	Version      string
	Metadata     SkillMetadata
	SkillMD      string
	SkillTomlRaw string
	Yanked       bool
	// Files holds extra skillpack files (scripts/, references/, assets/,
	// rules/, templates/) keyed by relative path from the skill root.
	Files map[string]SkillFile
	// Published is the ISO 8601 publish timestamp from versions.toml.
	Published string
	// HasContent is false for historical versions listed in versions.toml
	// whose content was not loaded from disk.
	HasContent bool
	// ContentHash is the computed composite content hash.
	ContentHash string
	// IntegrityOK is nil if no manifest was present, true if verified,
	// false if a mismatch was detected.
	IntegrityOK *bool
}

// SkillFile is an extra file in a skillpack.
type SkillFile struct {
	Content  string
	MimeType string
}

// VersionsManifest is the parsed form of versions.toml.
type VersionsManifest struct {
	Versions []VersionRecord `toml:"versions"`
}

// VersionRecord is a single version entry from versions.toml.
type VersionRecord struct {
	Version   string `toml:"version"`
	Published string `toml:"published"`
	Yanked    bool   `toml:"yanked"`
}

// SkillMetadata is parsed skill.toml metadata.
type SkillMetadata struct {
	Skill SkillInfo `toml:"skill"`
}

// SkillInfo is the [skill] table of skill.toml.
type SkillInfo struct {
	Name           string         `toml:"name"`
	Owner          string         `toml:"owner"`
	Version        string         `toml:"version"`
	Description    string         `toml:"description"`
	Trigger        string         `toml:"trigger,omitempty"`
	License        string         `toml:"license,omitempty"`
	Author         *AuthorInfo    `toml:"author,omitempty"`
	Classification *Classification `toml:"classification,omitempty"`
	Compatibility  *Compatibility  `toml:"compatibility,omitempty"`
}

// AuthorInfo is skill.toml's [skill.author] table.
type AuthorInfo struct {
	Name   string `toml:"name,omitempty"`
	Github string `toml:"github,omitempty"`
}

// Classification is skill.toml's [skill.classification] table.
type Classification struct {
	Categories []string `toml:"categories,omitempty"`
	Tags       []string `toml:"tags,omitempty"`
}

// KnownCapabilities lists recognized abstract capability names for
// required_capabilities. Values outside this list trigger a validation
// warning (not an error), catching typos while allowing forward-compatible
// extension.
var KnownCapabilities = []string{
	"shell_exec",
	"file_read",
	"file_write",
	"file_edit",
	"web_fetch",
	"web_search",
}

// Compatibility is skill.toml's [skill.compatibility] table.
type Compatibility struct {
	RequiresToolUse     *bool    `toml:"requires_tool_use,omitempty"`
	RequiresVision      *bool    `toml:"requires_vision,omitempty"`
	MinContextTokens    *uint64  `toml:"min_context_tokens,omitempty"`
	RequiredCapabilities []string `toml:"required_capabilities,omitempty"`
	RequiredMCPServers  []string `toml:"required_mcp_servers,omitempty"`
	VerifiedWith        []string `toml:"verified_with,omitempty"`
}

// SkillSummary is a denormalized summary of a skill's latest version, for
// search results and display.
type SkillSummary struct {
	Owner             string
	Name              string
	Version           string
	Description       string
	Trigger           string
	Categories        []string
	Tags              []string
	VerifiedWith      []string
	Files             []string
	Published         string
	VersionCount      int
	AvailableVersions []string
	ContentHash       string
	// Integrity is "verified", "failed", or "" when unknown.
	Integrity    string
	SourceLabel  string
}

// RegistryConfig is the top-level registry configuration, parsed from a
// registry's skillet.toml [registry] section.
type RegistryConfig struct {
	Registry RegistryInfo
}

// DefaultRegistryConfig returns the configuration used when a registry
// carries no skillet.toml [registry] section.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{Registry: RegistryInfo{Name: "skillhub", Version: 1}}
}

// RegistryInfo is core registry metadata.
type RegistryInfo struct {
	Name        string
	Version     uint32
	Description string
	Maintainer  *RegistryMaintainer
	URLs        *RegistryURLs
	Auth        *RegistryAuth
	Suggests    []RegistrySuggestion
	Defaults    *RegistryDefaults
}

// RegistryMaintainer is registry maintainer contact information.
type RegistryMaintainer struct {
	Name   string
	Github string
	Email  string
}

// RegistrySuggestion is a suggested registry for discovery (lightweight
// federation between registries).
type RegistrySuggestion struct {
	URL         string
	Description string
}

// RegistryDefaults holds server defaults a registry can specify.
type RegistryDefaults struct {
	RefreshInterval string
}

// RegistryURLs holds optional endpoints for non-git-backed registries.
type RegistryURLs struct {
	Download string
	API      string
}

// RegistryAuth is optional registry auth configuration.
type RegistryAuth struct {
	Required bool
}

// SummaryFromEntry builds a SkillSummary from entry's latest non-yanked
// version, or returns nil if the entry has no such version.
func SummaryFromEntry(entry *SkillEntry) *SkillSummary {
	v := entry.Latest()
	if v == nil {
		return nil
	}
	info := v.Metadata.Skill

	var categories, tags []string
	if info.Classification != nil {
		categories = info.Classification.Categories
		tags = info.Classification.Tags
	}
	var verifiedWith []string
	if info.Compatibility != nil {
		verifiedWith = info.Compatibility.VerifiedWith
	}

	files := make([]string, 0, len(v.Files))
	for path := range v.Files {
		files = append(files, path)
	}
	sort.Strings(files)

	var availableVersions []string
	for _, ver := range entry.Versions {
		if !ver.Yanked {
			availableVersions = append(availableVersions, ver.Version)
		}
	}

	integrity := ""
	if v.IntegrityOK != nil {
		if *v.IntegrityOK {
			integrity = "verified"
		} else {
			integrity = "failed"
		}
	}

	return &SkillSummary{
		Owner:             entry.Owner,
		Name:              entry.Name,
		Version:           info.Version,
		Description:       info.Description,
		Trigger:           info.Trigger,
		Categories:        categories,
		Tags:              tags,
		VerifiedWith:      verifiedWith,
		Files:             files,
		Published:         v.Published,
		VersionCount:      len(entry.Versions),
		AvailableVersions: availableVersions,
		ContentHash:       v.ContentHash,
		Integrity:         integrity,
		SourceLabel:       entry.Source.Label(),
	}
}

