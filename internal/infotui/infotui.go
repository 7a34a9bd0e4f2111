// Package infotui renders a skill's SKILL.md as formatted terminal
// markdown for `skillhub info`, using glamour. Falls back to raw text
// when rendering fails (e.g. no terminal style available).
package infotui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/runkids/skillhub/internal/skillstate"
	"github.com/runkids/skillhub/internal/tokencount"
)

// Render produces a terminal-formatted preview of a skill's latest
// version: metadata header followed by the rendered SKILL.md body.
func Render(entry *skillstate.SkillEntry, width int) (string, error) {
	summary := skillstate.SummaryFromEntry(entry)
	if summary == nil {
		return "", fmt.Errorf("%s/%s has no installable version", entry.Owner, entry.Name)
	}
	v := entry.Latest()

	var header strings.Builder
	fmt.Fprintf(&header, "# %s/%s\n\n", entry.Owner, entry.Name)
	fmt.Fprintf(&header, "**version**: %s  \n", summary.Version)
	fmt.Fprintf(&header, "**description**: %s  \n", summary.Description)
	if len(summary.Categories) > 0 {
		fmt.Fprintf(&header, "**categories**: %s  \n", strings.Join(summary.Categories, ", "))
	}
	if len(summary.Tags) > 0 {
		fmt.Fprintf(&header, "**tags**: %s  \n", strings.Join(summary.Tags, ", "))
	}
	tokens := tokencount.Count(v.SkillMD)
	fmt.Fprintf(&header, "**size**: %d bytes", len(v.SkillMD))
	if tokens > 0 {
		fmt.Fprintf(&header, " (~%d tokens)", tokens)
	}
	header.WriteString("\n\n---\n\n")

	doc := header.String() + v.SkillMD

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc, nil
	}

	out, err := renderer.Render(doc)
	if err != nil {
		return doc, nil
	}
	return out, nil
}
