package main

import (
	"fmt"
	"sort"

	"github.com/runkids/skillhub/internal/registrymerge"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdCategories(args []string) error {
	opts, err := parseArgs(args)
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

	if len(index.Categories) == 0 {
		ui.Info("no categories found")
		return nil
	}

	names := make([]string, 0, len(index.Categories))
	for name := range index.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("  %-30s %d\n", name, index.Categories[name])
	}
	return nil
}
