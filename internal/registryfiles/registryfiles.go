// Package registryfiles loads the auxiliary files a skillpack may ship
// alongside skill.toml and SKILL.md: scripts, references, assets, rules,
// and templates. It is shared by validate, registryindex, project, and
// discover so the allow-list lives in exactly one place.
package registryfiles

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/runkids/skillhub/internal/skillstate"
)

// ExtraDirs are the only subdirectories scanned for extra skillpack
// files. Anything else under a skill directory is ignored.
var ExtraDirs = []string{"scripts", "references", "assets", "rules", "templates"}

// LoadExtraFiles walks each of ExtraDirs under skillDir and returns every
// regular file found, keyed by "<subdir>/<relative-path>". Files that
// aren't valid UTF-8 are skipped rather than erroring, since binary
// assets (images, compiled binaries) are not hashed as text content.
func LoadExtraFiles(skillDir string) (map[string]skillstate.SkillFile, error) {
	files := make(map[string]skillstate.SkillFile)

	for _, dir := range ExtraDirs {
		root := filepath.Join(skillDir, dir)
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if !utf8.Valid(content) {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			key := dir + "/" + filepath.ToSlash(rel)

			files[key] = skillstate.SkillFile{
				Content:  string(content),
				MimeType: guessMimeType(key),
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// guessMimeType infers a MIME type from a file's extension, falling back
// to text/plain for anything unrecognized.
func guessMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return "text/markdown"
	case ".sh", ".bash":
		return "text/x-shellscript"
	case ".py":
		return "text/x-python"
	case ".js":
		return "text/javascript"
	case ".ts":
		return "text/typescript"
	case ".json":
		return "application/json"
	case ".toml":
		return "application/toml"
	case ".yaml", ".yml":
		return "text/yaml"
	default:
		return "text/plain"
	}
}
