// Package reposcatalog loads an optional repos.toml alongside a
// registry: a curated list of short-name -> {url, subdir} entries so
// users can refer to "anthropics/skills" instead of a full git URL.
package reposcatalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Entry is a single curated external repository.
type Entry struct {
	Name        string   `toml:"name"`
	URL         string   `toml:"url"`
	Subdir      string   `toml:"subdir,omitempty"`
	Description string   `toml:"description,omitempty"`
	Domains     []string `toml:"domains,omitempty"`
}

type catalogFile struct {
	Repo []Entry `toml:"repo"`
}

// Catalog is the in-memory set of curated repos.
type Catalog struct {
	Entries []Entry
}

// Find looks up an entry by short name, case-insensitive.
func (c *Catalog) Find(name string) (Entry, bool) {
	for _, e := range c.Entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// IsEmpty reports whether the catalog has no entries.
func (c *Catalog) IsEmpty() bool {
	return len(c.Entries) == 0
}

// Load loads repos.toml from registryPath, or its parent directory if
// registryPath itself has none (covering the common case where
// registryPath is a subdirectory of a cloned repo, e.g.
// "<cache>/owner_repo/registry"). Returns an empty catalog if neither
// exists. Errors only if a found file is malformed.
func Load(registryPath string) (*Catalog, error) {
	path := filepath.Join(registryPath, "repos.toml")
	if _, err := os.Stat(path); err != nil {
		parent := filepath.Dir(registryPath)
		parentPath := filepath.Join(parent, "repos.toml")
		if _, err := os.Stat(parentPath); err == nil {
			return loadFrom(parentPath)
		}
		return &Catalog{}, nil
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var file catalogFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &Catalog{Entries: file.Repo}, nil
}
