// Package diskcache persists a loaded SkillIndex per registry source so
// repeated runs can skip re-walking a local directory or re-cloning a
// remote repository. Each registry gets its own cache file so a single
// stale registry doesn't invalidate others.
package diskcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/runkids/skillhub/internal/gitutil"
	"github.com/runkids/skillhub/internal/skillstate"
)

// cacheVersion is bumped to invalidate every cache when the format changes.
const cacheVersion = 1

// SourceKind distinguishes a local filesystem registry from a
// git-backed remote one for cache path derivation.
type SourceKind int

const (
	SourceLocalDir SourceKind = iota
	SourceRemote
)

// Source identifies the registry a cache entry belongs to.
type Source struct {
	Kind     SourceKind
	Path     string // SourceLocalDir: registry root. SourceRemote: local checkout.
	URL      string // SourceRemote only.
}

type cachedIndex struct {
	Version    int                            `json:"version"`
	GitHead    string                         `json:"git_head,omitempty"`
	CachedAt   int64                          `json:"cached_at"`
	Skills     []*skillstate.SkillEntry       `json:"skills"`
	Categories map[string]int                 `json:"categories"`
}

// cachePath computes the cache file path for a registry source.
func cachePath(source Source) string {
	base := Dir()
	if source.Kind == SourceLocalDir {
		return filepath.Join(base, fmt.Sprintf("local_%s.json", shortHash(source.Path)))
	}

	slug := urlSlug(source.URL)
	return filepath.Join(base, slug+".json")
}

func urlSlug(url string) string {
	trimmed := strings.TrimSuffix(url, ".git")
	parts := strings.Split(trimmed, "/")
	n := len(parts)
	if n == 0 {
		return "default"
	}
	start := n - 2
	if start < 0 {
		start = 0
	}
	slug := strings.Join(parts[start:], "_")
	if slug == "" {
		return "default"
	}
	return slug
}

// Load attempts to load a cached index for source. It returns false on
// any failure: missing, corrupt, expired, version mismatch, or a git
// HEAD mismatch against the live checkout. Cache reads are best-effort.
func Load(source Source, ttl time.Duration) (*skillstate.SkillIndex, bool) {
	path := cachePath(source)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var cached cachedIndex
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	if cached.Version != cacheVersion {
		return nil, false
	}

	if ttl > 0 {
		age := time.Since(time.Unix(cached.CachedAt, 0))
		if age > ttl {
			return nil, false
		}
	}

	if cached.GitHead != "" {
		repoPath := source.Path
		if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
			if head, err := gitutil.Head(repoPath); err == nil && head != cached.GitHead {
				return nil, false
			}
		}
	}

	index := skillstate.NewSkillIndex()
	for _, entry := range cached.Skills {
		index.Skills[skillstate.SkillKey{Owner: entry.Owner, Name: entry.Name}] = entry
	}
	for cat, count := range cached.Categories {
		index.Categories[cat] = count
	}

	return index, true
}

// Write persists index for source. Failures are swallowed (cache
// writes are best-effort, never fatal to a command).
func Write(source Source, index *skillstate.SkillIndex) {
	path := cachePath(source)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}

	var gitHead string
	switch source.Kind {
	case SourceLocalDir:
		if _, err := os.Stat(filepath.Join(source.Path, ".git")); err == nil {
			gitHead, _ = gitutil.Head(source.Path)
		}
	case SourceRemote:
		gitHead, _ = gitutil.Head(source.Path)
	}

	skills := make([]*skillstate.SkillEntry, 0, len(index.Skills))
	for _, entry := range index.Skills {
		skills = append(skills, entry)
	}

	cached := cachedIndex{
		Version:    cacheVersion,
		GitHead:    gitHead,
		CachedAt:   time.Now().Unix(),
		Skills:     skills,
		Categories: index.Categories,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}

// Clear removes every cached index file.
func Clear() error {
	dir := Dir()
	if _, err := os.Stat(dir); err != nil {
		return nil
	}
	return os.RemoveAll(dir)
}

// Dir is the index cache directory: ~/.cache/skillhub/index/.
func Dir() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache", "skillhub", "index")
	}
	return filepath.Join("/tmp", "skillhub", "index")
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
