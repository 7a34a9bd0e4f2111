package reposcatalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFromRegistryRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "repos.toml"), `
[[repo]]
name = "anthropics/skills"
url = "https://github.com/anthropics/skills"
description = "Official skills"
`)

	catalog, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if catalog.IsEmpty() {
		t.Fatalf("expected non-empty catalog")
	}
	entry, ok := catalog.Find("anthropics/skills")
	if !ok {
		t.Fatalf("expected to find anthropics/skills")
	}
	if entry.URL != "https://github.com/anthropics/skills" {
		t.Fatalf("url = %q", entry.URL)
	}
}

func TestLoadFromParentDir(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "repos.toml"), `
[[repo]]
name = "acme/tools"
url = "https://example.com/acme/tools"
`)
	registryPath := filepath.Join(base, "registry")
	if err := os.MkdirAll(registryPath, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	catalog, err := Load(registryPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := catalog.Find("acme/tools"); !ok {
		t.Fatalf("expected to find acme/tools via parent repos.toml")
	}
}

func TestLoadMissingReturnsEmpty(t *testing.T) {
	catalog, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !catalog.IsEmpty() {
		t.Fatalf("expected empty catalog")
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	catalog := &Catalog{Entries: []Entry{{Name: "Acme/Tools", URL: "u"}}}
	if _, ok := catalog.Find("acme/tools"); !ok {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestLoadMalformedErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "repos.toml"), "not valid toml {{{{")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for malformed repos.toml")
	}
}
