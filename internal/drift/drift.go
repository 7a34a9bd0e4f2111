// Package drift renders a line-level diff between an installed
// skill's SKILL.md and its current registry source, for `skillhub
// diff`: inspecting what would change on reinstall without yet
// writing anything.
package drift

import (
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result is the outcome of diffing an installed file against its
// registry source.
type Result struct {
	// Identical is true when both sides match byte-for-byte.
	Identical bool
	// Unified is a unified-style diff ("+ "/"- "/"  " prefixed lines),
	// empty when Identical is true.
	Unified string
}

// Files diffs the installed copy at installedPath against the
// registry's current content for the same skill. installedPath not
// existing is reported as a diff against an empty "old" side.
func Files(installedPath, registryContent string) Result {
	installed := readFileString(installedPath)
	if installed == registryContent {
		return Result{Identical: true}
	}
	return Result{Unified: unifiedDiff(installed, registryContent)}
}

// Strings diffs two in-memory strings directly.
func Strings(old, new string) Result {
	if old == new {
		return Result{Identical: true}
	}
	return Result{Unified: unifiedDiff(old, new)}
}

func unifiedDiff(oldContent, newContent string) string {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return formatUnifiedDiff(diffs)
}

func formatUnifiedDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}

		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
			prefix = "  "
		}

		for _, line := range lines {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func readFileString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
