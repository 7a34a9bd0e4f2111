package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/registrymerge"
	"github.com/runkids/skillhub/internal/reposcatalog"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdRepos(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := skillconfig.Load()
	if err != nil {
		return err
	}

	_, registryPaths, err := registrymerge.LoadRegistries(opts.Registries, opts.Remotes, cfg, opts.Subdir)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, path := range registryPaths {
		catalog, err := reposcatalog.Load(path)
		if err != nil {
			return err
		}
		if catalog.IsEmpty() {
			continue
		}
		for _, e := range catalog.Entries {
			rows = append(rows, []string{e.Name, e.URL, e.Description})
		}
	}

	if len(rows) == 0 {
		ui.Info("no curated repos found in the configured registries")
		return nil
	}

	ui.Table([]string{"Name", "URL", "Description"}, rows)
	return nil
}
