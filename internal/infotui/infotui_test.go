package infotui

import (
	"strings"
	"testing"

	"github.com/runkids/skillhub/internal/skillstate"
)

func sampleEntry() *skillstate.SkillEntry {
	return &skillstate.SkillEntry{
		Owner: "acme",
		Name:  "code-review",
		Versions: []*skillstate.SkillVersion{
			{
				Version: "1.0.0",
				Metadata: skillstate.SkillMetadata{
					Skill: skillstate.SkillInfo{
						Name:        "code-review",
						Owner:       "acme",
						Version:     "1.0.0",
						Description: "Reviews pull requests for style issues",
						Classification: &skillstate.Classification{
							Categories: []string{"engineering"},
							Tags:       []string{"review", "style"},
						},
					},
				},
				SkillMD: "# Code Review\n\nRead the diff and comment on style issues.\n",
			},
		},
	}
}

func TestRenderIncludesHeaderFields(t *testing.T) {
	out, err := Render(sampleEntry(), 80)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "acme/code-review") {
		t.Fatalf("rendered output missing owner/name: %s", out)
	}
	if !strings.Contains(out, "1.0.0") {
		t.Fatalf("rendered output missing version: %s", out)
	}
	if !strings.Contains(out, "Read the diff") {
		t.Fatalf("rendered output missing SKILL.md body: %s", out)
	}
}

func TestRenderErrorsWithoutInstallableVersion(t *testing.T) {
	entry := &skillstate.SkillEntry{Owner: "acme", Name: "empty"}
	if _, err := Render(entry, 80); err == nil {
		t.Fatalf("expected an error for an entry with no versions")
	}
}
