package main

import (
	"fmt"
	"path/filepath"

	"github.com/runkids/skillhub/internal/drift"
	"github.com/runkids/skillhub/internal/manifest"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdDiff(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub diff <owner/name>")
	}
	owner, name, err := splitOwnerName(opts.Rest[0])
	if err != nil {
		return err
	}

	installed, err := manifest.Load()
	if err != nil {
		return err
	}
	matches := installed.FindBySkill(owner, name)
	if len(matches) == 0 {
		return fmt.Errorf("%s/%s is not installed", owner, name)
	}

	_, index, err := loadMergedIndex(opts)
	if err != nil {
		return err
	}
	entry, ok := index.Skills[skillKey(owner, name)]
	if !ok {
		return fmt.Errorf("skill %s/%s not found in any configured registry", owner, name)
	}
	version := entry.Latest()
	if version == nil {
		return fmt.Errorf("%s/%s has no installable version", owner, name)
	}

	anyDiff := false
	for _, m := range matches {
		result := drift.Files(filepath.Join(m.InstalledTo, "SKILL.md"), version.SkillMD)
		if result.Identical {
			ui.Status(fmt.Sprintf("%s/%s", owner, name), "unchanged", m.InstalledTo)
			continue
		}
		anyDiff = true
		ui.Status(fmt.Sprintf("%s/%s", owner, name), "drift", m.InstalledTo)
		fmt.Print(result.Unified)
	}

	if !anyDiff {
		ui.Success("%s/%s matches the registry", owner, name)
	}
	return nil
}
