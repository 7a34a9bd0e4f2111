// Package skillhash computes and verifies the content hashes used to
// detect tampering in an installed or published skill: a per-file
// SHA-256 digest plus a composite hash over all of them, persisted as
// MANIFEST.sha256 alongside a skill package.
package skillhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ContentHashes holds per-file hashes for a skill version plus a
// composite hash over all of them.
type ContentHashes struct {
	// Files maps path -> "sha256:<hex>" for each file, always including
	// SKILL.md and skill.toml.
	Files map[string]string
	// Composite is the hash of the sorted (path, hash) pairs.
	Composite string
}

// SHA256Hex returns the SHA-256 digest of content as "sha256:<hex>".
func SHA256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// ExtraFile is an auxiliary file (from scripts/, references/, assets/,
// rules/, templates/) included in a skill's content hashes.
type ExtraFile struct {
	Path    string
	Content string
}

// ComputeHashes computes hashes for a skill's on-disk content. Always
// includes SKILL.md and skill.toml; extra files are included when
// present.
func ComputeHashes(skillToml, skillMD string, extraFiles []ExtraFile) ContentHashes {
	files := map[string]string{
		"SKILL.md":   SHA256Hex(skillMD),
		"skill.toml": SHA256Hex(skillToml),
	}
	for _, f := range extraFiles {
		files[f.Path] = SHA256Hex(f.Content)
	}

	return ContentHashes{
		Files:     files,
		Composite: computeComposite(files),
	}
}

func computeComposite(files map[string]string) string {
	paths := sortedKeys(files)
	h := sha256.New()
	for _, path := range paths {
		h.Write([]byte(path))
		h.Write([]byte(files[path]))
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseManifest parses a MANIFEST.sha256 file's content into
// ContentHashes. Format: one line per entry, "<hash>  <path>" (two-space
// separator). The composite hash uses "*" as its path. Blank lines and
// lines starting with "#" are ignored.
func ParseManifest(content string) (ContentHashes, error) {
	files := map[string]string{}
	var composite string
	haveComposite := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		hash, path, ok := strings.Cut(line, "  ")
		if !ok {
			return ContentHashes{}, fmt.Errorf("invalid manifest line (expected two-space separator): %s", line)
		}
		hash = strings.TrimSpace(hash)
		path = strings.TrimSpace(path)

		if path == "*" {
			composite = hash
			haveComposite = true
		} else {
			files[path] = hash
		}
	}

	if !haveComposite {
		return ContentHashes{}, fmt.Errorf("MANIFEST.sha256 missing composite hash (line with '*' path)")
	}

	return ContentHashes{Files: files, Composite: composite}, nil
}

// FormatManifest renders a ContentHashes as MANIFEST.sha256 text:
// composite hash first (with "*" path), then files sorted alphabetically.
func FormatManifest(hashes ContentHashes) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  *\n", hashes.Composite)
	for _, path := range sortedKeys(hashes.Files) {
		fmt.Fprintf(&b, "%s  %s\n", hashes.Files[path], path)
	}
	return b.String()
}

// Verify compares computed hashes against expected hashes and returns
// human-readable mismatch descriptions. An empty slice means everything
// matches.
func Verify(computed, expected ContentHashes) []string {
	var mismatches []string

	if computed.Composite != expected.Composite {
		mismatches = append(mismatches, fmt.Sprintf(
			"composite hash mismatch: expected %s, computed %s",
			expected.Composite, computed.Composite))
	}

	for _, path := range sortedKeys(expected.Files) {
		expectedHash := expected.Files[path]
		computedHash, ok := computed.Files[path]
		switch {
		case !ok:
			mismatches = append(mismatches, fmt.Sprintf("%s: listed in manifest but not found on disk", path))
		case computedHash != expectedHash:
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %s, computed %s", path, expectedHash, computedHash))
		}
	}

	for _, path := range sortedKeys(computed.Files) {
		if _, ok := expected.Files[path]; !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: found on disk but not in manifest", path))
		}
	}

	return mismatches
}
