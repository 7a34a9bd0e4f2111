// Package registrymerge initializes, loads, and merges one or more
// skill registries, local or git-backed remote, into a single index.
package registrymerge

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/runkids/skillhub/internal/diskcache"
	"github.com/runkids/skillhub/internal/gitutil"
	"github.com/runkids/skillhub/internal/registryindex"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillstate"
	"github.com/runkids/skillhub/internal/ui"
)

// ParseDuration parses a human-friendly duration string like "5m",
// "1h", "30s", "0", or a bare number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return 0, nil
	}

	idx := len(s)
	for i, r := range s {
		if r < '0' || r > '9' {
			idx = i
			break
		}
	}
	num, suffix := s[:idx], s[idx:]

	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %s", s)
	}

	var secs uint64
	switch suffix {
	case "s", "":
		secs = n
	case "m":
		secs = n * 60
	case "h":
		secs = n * 3600
	default:
		return 0, fmt.Errorf("unknown duration suffix: %s (use s, m, or h)", suffix)
	}

	return time.Duration(secs) * time.Second, nil
}

// CacheDirForURL derives a cache directory from a remote URL: the
// last two path segments joined by "_", with a trailing ".git"
// stripped ("https://github.com/owner/repo.git" -> "<base>/owner_repo").
func CacheDirForURL(base, url string) string {
	trimmed := strings.TrimSuffix(url, ".git")
	parts := strings.Split(trimmed, "/")

	n := len(parts)
	start := n - 2
	if start < 0 {
		start = 0
	}
	slug := strings.Join(parts[start:], "_")
	if slug == "" {
		slug = "default"
	}

	return filepath.Join(base, slug)
}

// DefaultCacheDir is the default cache directory for cloned remote
// registries: ~/.cache/skillhub/.
func DefaultCacheDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache", "skillhub")
	}
	return filepath.Join("/tmp", "skillhub")
}

// InitRegistry creates a new skill registry at path: a git repo with
// config.toml, README.md, and .gitignore, committed as the initial
// commit.
func InitRegistry(path, name string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}

	config := fmt.Sprintf("[registry]\nname = \"%s\"\nversion = 1\n", name)
	if err := os.WriteFile(filepath.Join(path, "config.toml"), []byte(config), 0o644); err != nil {
		return err
	}

	readme := fmt.Sprintf(`# %s

A skill registry for [skillhub](https://github.com/runkids/skillhub).

## Adding skills

Create a directory for your skill:

`+"```"+`
mkdir -p your-name/skill-name
`+"```"+`

Add the two required files:

- `+"`skill.toml`"+` -- metadata (name, description, categories, tags)
- `+"`SKILL.md`"+` -- the skill prompt (Agent Skills spec compatible)

Validate with `+"`skillhub validate your-name/skill-name`"+`.

## Serving

`+"```bash"+`
# Local
skillhub search --registry .

# Remote (after pushing to git)
skillhub search --remote <git-url>
`+"```"+`
`, name)
	if err := os.WriteFile(filepath.Join(path, "README.md"), []byte(readme), 0o644); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(path, ".gitignore"), []byte(".DS_Store\n"), 0o644); err != nil {
		return err
	}

	if err := runGit(path, "init"); err != nil {
		return fmt.Errorf("git init failed: %w", err)
	}

	hasIdentity := exec.Command("git", "config", "user.name")
	hasIdentity.Dir = path
	if err := hasIdentity.Run(); err != nil {
		_ = runGit(path, "config", "user.name", "skillhub")
		_ = runGit(path, "config", "user.email", "skillhub@localhost")
	}

	if err := runGit(path, "add", "."); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	if err := runGit(path, "commit", "-m", "Initialize skill registry"); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}

	return nil
}

func runGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s", strings.TrimSpace(string(out)))
	}
	return nil
}

// LoadRegistries loads and merges registries from CLI flags and/or
// config. Priority: if any flags are given, use only those; otherwise
// fall back to config. Errors if no registries are available from
// either source. subdir, if non-empty, is joined onto every registry
// root (local or remote) before loading, e.g. to point at a
// subdirectory of a monorepo. Returns the merged index and the list
// of registry root paths actually used (remotes resolved to their
// local checkout), for registry identification in the install
// manifest.
func LoadRegistries(registryFlags, remoteFlags []string, cfg skillconfig.Config, subdir string) (*skillstate.SkillIndex, []string, error) {
	hasFlags := len(registryFlags) > 0 || len(remoteFlags) > 0

	var localPaths, remoteURLs []string
	if hasFlags {
		localPaths = withSubdir(registryFlags, subdir)
		remoteURLs = remoteFlags
	} else {
		localPaths = withSubdir(cfg.Registries.Local, subdir)
		remoteURLs = cfg.Registries.Remote
	}

	if len(localPaths) == 0 && len(remoteURLs) == 0 {
		return nil, nil, fmt.Errorf("no registries configured: use --registry, --remote, or add registries to %s",
			filepath.Join(skillconfig.Dir(), "config.toml"))
	}

	cacheBase := DefaultCacheDir()
	cacheEnabled := cfg.Cache.Enabled
	ttl, err := ParseDuration(cfg.Cache.TTL)
	if err != nil {
		ttl = time.Hour
	}

	var registryPaths []string
	merged := skillstate.NewSkillIndex()

	loadAndMerge := func(path string, source diskcache.Source) error {
		if cacheEnabled {
			if cached, ok := diskcache.Load(source, ttl); ok {
				pterm.Debug.Printfln("cache hit for %s", path)
				merged.Merge(cached)
				return nil
			}
		}
		idx, err := registryindex.LoadIndex(path)
		if err != nil {
			return err
		}
		if cacheEnabled {
			diskcache.Write(source, idx)
		}
		merged.Merge(idx)
		return nil
	}

	for _, path := range localPaths {
		if err := loadAndMerge(path, diskcache.Source{Kind: diskcache.SourceLocalDir, Path: path}); err != nil {
			return nil, nil, err
		}
		registryPaths = append(registryPaths, path)
	}

	for _, url := range remoteURLs {
		target := CacheDirForURL(cacheBase, url)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, nil, err
		}
		if err := syncRemote(url, target); err != nil {
			return nil, nil, err
		}
		path := target
		if subdir != "" {
			path = filepath.Join(target, subdir)
		}
		if err := loadAndMerge(path, diskcache.Source{Kind: diskcache.SourceRemote, Path: path, URL: url}); err != nil {
			return nil, nil, err
		}
		registryPaths = append(registryPaths, path)
	}

	return merged, registryPaths, nil
}

// syncRemote clones or pulls url into target behind a spinner, since a
// cold clone of a large registry can take several seconds.
func syncRemote(url, target string) error {
	spinner := ui.StartSpinner(fmt.Sprintf("syncing %s", url))
	err := gitutil.CloneOrPullProgress(url, target, func(line string) {
		spinner.Update(line)
	})
	if err != nil {
		spinner.Fail(fmt.Sprintf("failed to sync %s", url))
		return err
	}
	spinner.Success(fmt.Sprintf("synced %s", url))
	return nil
}

func withSubdir(paths []string, subdir string) []string {
	if subdir == "" {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Join(p, subdir)
	}
	return out
}

// RegistryID identifies a registry for installed-skill manifest
// entries: the git URL as-is for a remote's cached clone, or
// "local:<abs_path>" otherwise.
func RegistryID(path string, remoteURLs []string) string {
	cacheBase := DefaultCacheDir()
	for _, url := range remoteURLs {
		cached := CacheDirForURL(cacheBase, url)
		if strings.HasPrefix(path, cached) {
			return url
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "local:" + abs
}
