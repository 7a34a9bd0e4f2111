package registryfiles

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
		t.Fatalf("write: %v", err)
	}
}

func TestLoadExtraFilesCollectsKnownDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scripts", "run.sh"), "#!/bin/sh\necho hi\n")
	writeFile(t, filepath.Join(dir, "references", "notes.md"), "# Notes\n")
	writeFile(t, filepath.Join(dir, "ignored", "file.txt"), "not scanned")

	files, err := LoadExtraFiles(dir)
	if err != nil {
		t.Fatalf("LoadExtraFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	script, ok := files["scripts/run.sh"]
	if !ok {
		t.Fatalf("expected scripts/run.sh to be indexed")
	}
	if script.MimeType != "text/x-shellscript" {
		t.Fatalf("unexpected mime type: %q", script.MimeType)
	}
	if _, ok := files["ignored/file.txt"]; ok {
		t.Fatalf("expected unrecognized directories to be skipped")
	}
}

func TestLoadExtraFilesSkipsBinaryContent(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "assets", "image.png")
	if err := os.MkdirAll(filepath.Dir(binPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(binPath, []byte{0xff, 0xfe, 0x00, 0xff}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	files, err := LoadExtraFiles(dir)
	if err != nil {
		t.Fatalf("LoadExtraFiles: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected invalid UTF-8 files to be skipped, got %+v", files)
	}
}

func TestLoadExtraFilesNestedPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "templates", "sub", "file.json"), `{"a":1}`)

	files, err := LoadExtraFiles(dir)
	if err != nil {
		t.Fatalf("LoadExtraFiles: %v", err)
	}
	file, ok := files["templates/sub/file.json"]
	if !ok {
		t.Fatalf("expected nested path to use forward slashes, got %+v", files)
	}
	if file.MimeType != "application/json" {
		t.Fatalf("unexpected mime type: %q", file.MimeType)
	}
}

func TestLoadExtraFilesNoDirsReturnsEmpty(t *testing.T) {
	files, err := LoadExtraFiles(t.TempDir())
	if err != nil {
		t.Fatalf("LoadExtraFiles: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %+v", files)
	}
}
