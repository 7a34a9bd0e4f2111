package main

import (
	"fmt"
	"strings"

	"github.com/runkids/skillhub/internal/registrymerge"
	"github.com/runkids/skillhub/internal/search"
	"github.com/runkids/skillhub/internal/searchtui"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdSearch(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	query := strings.Join(opts.Rest, " ")

	cfg, err := skillconfig.Load()
	if err != nil {
		return err
	}

	index, _, err := registrymerge.LoadRegistries(opts.Registries, opts.Remotes, cfg, opts.Subdir)
	if err != nil {
		return err
	}

	if !opts.NoTUI && ui.IsTTY() {
		result, err := searchtui.Run(index, query)
		if err != nil {
			return err
		}
		if result.Cancelled || result.Picked == nil {
			return nil
		}
		ui.Success("picked %s/%s", result.Picked.Owner, result.Picked.Name)
		return nil
	}

	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("usage: skillhub search <query>")
	}

	searcher := search.Build(index)
	results := searcher.Search(query, opts.Limit)
	if len(results) == 0 {
		ui.Info("no skills matched %q", query)
		return nil
	}

	for _, r := range results {
		entry := index.Skills[skillKey(r.Owner, r.Name)]
		summary := summaryOrNil(entry)
		detail := fmt.Sprintf("score %.2f", r.Score)
		if summary != nil {
			detail = summary.Description
		}
		ui.Status(fmt.Sprintf("%s/%s", r.Owner, r.Name), "match", detail)
	}
	return nil
}
