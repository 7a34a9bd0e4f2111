package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/infotui"
	"github.com/runkids/skillhub/internal/registrymerge"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdInfo(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub info <owner/name>")
	}
	owner, name, err := splitOwnerName(opts.Rest[0])
	if err != nil {
		return err
	}

	cfg, err := skillconfig.Load()
	if err != nil {
		return err
	}

	index, _, err := registrymerge.LoadRegistries(opts.Registries, opts.Remotes, cfg, opts.Subdir)
	if err != nil {
		return err
	}

	entry, ok := index.Skills[skillKey(owner, name)]
	if !ok {
		return fmt.Errorf("skill %s/%s not found", owner, name)
	}

	if !opts.NoTUI && ui.IsTTY() {
		out, err := infotui.Render(entry, 100)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	summary := summaryOrNil(entry)
	if summary == nil {
		return fmt.Errorf("%s/%s has no installable version", owner, name)
	}
	fmt.Printf("%s/%s v%s\n", owner, name, summary.Version)
	fmt.Printf("  %s\n", summary.Description)
	if len(summary.Categories) > 0 {
		fmt.Printf("  categories: %v\n", summary.Categories)
	}
	if len(summary.Tags) > 0 {
		fmt.Printf("  tags: %v\n", summary.Tags)
	}
	fmt.Printf("  versions: %v\n", summary.AvailableVersions)
	fmt.Printf("  content hash: %s\n", summary.ContentHash)
	return nil
}
