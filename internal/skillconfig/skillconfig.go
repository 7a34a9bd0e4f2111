// Package skillconfig loads skillhub's CLI configuration from
// ~/.config/skillhub/config.toml: default install targets, registries,
// and trust policy. It also owns the config directory convention shared
// by internal/trust and internal/manifest.
package skillconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level skillhub CLI configuration.
type Config struct {
	Install    InstallConfig    `toml:"install"`
	Registries RegistriesConfig `toml:"registries"`
	Cache      CacheConfig      `toml:"cache"`
	Trust      TrustConfig      `toml:"trust"`
	Safety     SafetyConfig     `toml:"safety"`
}

// CacheConfig is the [cache] section: whether the persistent index
// cache is consulted at all.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	TTL     string `toml:"ttl,omitempty"`
}

// SafetyConfig is the [safety] section: rule ids suppressed across
// every scan.
type SafetyConfig struct {
	Suppress []string `toml:"suppress"`
}

// InstallConfig is the [install] section: default targets and global flag.
type InstallConfig struct {
	Targets []string `toml:"targets"`
	Global  bool     `toml:"global"`
}

// RegistriesConfig is the [registries] section: default local and remote
// registries consulted when none are given on the command line.
type RegistriesConfig struct {
	Local  []string `toml:"local"`
	Remote []string `toml:"remote"`
}

// TrustConfig is the [trust] section: default policy for unknown
// registries and whether installs auto-pin content hashes.
type TrustConfig struct {
	UnknownPolicy   string `toml:"unknown_policy"`
	RequireTrusted  bool   `toml:"require_trusted"`
	AutoPin         bool   `toml:"auto_pin"`
}

// Default returns the configuration used when no config.toml exists.
func Default() Config {
	return Config{
		Install: InstallConfig{Targets: []string{"agents"}, Global: false},
		Cache:   CacheConfig{Enabled: true, TTL: "1h"},
		Trust:   TrustConfig{UnknownPolicy: "warn", AutoPin: true},
	}
}

// Load reads ~/.config/skillhub/config.toml, returning defaults if the
// file is absent. It errors if the file exists but is malformed.
func Load() (Config, error) {
	path := filepath.Join(Dir(), "config.toml")
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration from a specific path, applying the same
// per-section defaults as Load when a section is absent from the file.
func LoadFrom(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Path is the default config.toml location.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Save writes cfg to the default config.toml location, creating the
// config directory if needed.
func (c Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes cfg to path as TOML.
func (c Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	content, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// InstallTarget is an agent platform a skill can be installed into.
type InstallTarget int

const (
	TargetAgents InstallTarget = iota
	TargetClaude
	TargetCursor
	TargetCopilot
	TargetWindsurf
	TargetGemini
)

// AllTargets lists every known install target, in canonical order.
var AllTargets = []InstallTarget{TargetAgents, TargetClaude, TargetCursor, TargetCopilot, TargetWindsurf, TargetGemini}

func (t InstallTarget) String() string {
	switch t {
	case TargetAgents:
		return "agents"
	case TargetClaude:
		return "claude"
	case TargetCursor:
		return "cursor"
	case TargetCopilot:
		return "copilot"
	case TargetWindsurf:
		return "windsurf"
	case TargetGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// ParseTarget parses a target string. A nil *InstallTarget with a nil
// error indicates "all" (the caller should expand via AllTargets).
func ParseTarget(s string) (*InstallTarget, error) {
	switch strings.ToLower(s) {
	case "all":
		return nil, nil
	case "agents":
		t := TargetAgents
		return &t, nil
	case "claude":
		t := TargetClaude
		return &t, nil
	case "cursor":
		t := TargetCursor
		return &t, nil
	case "copilot":
		t := TargetCopilot
		return &t, nil
	case "windsurf":
		t := TargetWindsurf
		return &t, nil
	case "gemini":
		t := TargetGemini
		return &t, nil
	default:
		return nil, fmt.Errorf("unknown install target: %s. valid targets: agents, claude, cursor, copilot, windsurf, gemini, all", s)
	}
}

// ProjectDir returns the project-local install directory for a skill
// named name under this target's convention.
func (t InstallTarget) ProjectDir(name string) string {
	switch t {
	case TargetAgents:
		return filepath.Join(".agents", "skills", name) + string(filepath.Separator)
	case TargetClaude:
		return filepath.Join(".claude", "skills", name) + string(filepath.Separator)
	case TargetCursor:
		return filepath.Join(".cursor", "skills", name) + string(filepath.Separator)
	case TargetCopilot:
		return filepath.Join(".github", "skills", name) + string(filepath.Separator)
	case TargetWindsurf:
		return filepath.Join(".windsurf", "skills", name) + string(filepath.Separator)
	case TargetGemini:
		return filepath.Join(".gemini", "skills", name) + string(filepath.Separator)
	default:
		return filepath.Join(".agents", "skills", name) + string(filepath.Separator)
	}
}

// GlobalDir returns the global (per-user) install directory for a skill
// named name under this target's convention.
func (t InstallTarget) GlobalDir(name string) string {
	home := homeDir()
	switch t {
	case TargetAgents:
		return filepath.Join(home, ".agents", "skills", name) + string(filepath.Separator)
	case TargetClaude:
		return filepath.Join(home, ".claude", "skills", name) + string(filepath.Separator)
	case TargetCursor:
		return filepath.Join(home, ".cursor", "skills", name) + string(filepath.Separator)
	case TargetCopilot:
		return filepath.Join(home, ".copilot", "skills", name) + string(filepath.Separator)
	case TargetWindsurf:
		return filepath.Join(home, ".codeium", "windsurf", "skills", name) + string(filepath.Separator)
	case TargetGemini:
		return filepath.Join(home, ".gemini", "skills", name) + string(filepath.Separator)
	default:
		return filepath.Join(home, ".agents", "skills", name) + string(filepath.Separator)
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return "/tmp"
}

// ResolveTargets resolves install targets with priority flagTargets >
// config targets > default ("agents"). Duplicates (including those
// introduced by "all") are dropped, preserving first-seen order.
func ResolveTargets(flagTargets []string, cfg Config) ([]InstallTarget, error) {
	raw := flagTargets
	if len(raw) == 0 {
		raw = cfg.Install.Targets
	}
	if len(raw) == 0 {
		return []InstallTarget{TargetAgents}, nil
	}

	var targets []InstallTarget
	seen := map[InstallTarget]bool{}
	add := func(t InstallTarget) {
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}

	for _, s := range raw {
		t, err := ParseTarget(s)
		if err != nil {
			return nil, err
		}
		if t == nil {
			for _, all := range AllTargets {
				add(all)
			}
			continue
		}
		add(*t)
	}
	return targets, nil
}

// Dir is the skillhub config directory: ~/.config/skillhub/.
func Dir() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "skillhub")
	}
	return filepath.Join("/tmp", "skillhub", "config")
}

// NowISO8601 returns the current time as an ISO 8601 UTC timestamp
// (e.g. "2026-07-31T12:00:00Z").
func NowISO8601() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
