package main

import (
	"github.com/runkids/skillhub/internal/registrymerge"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillstate"
)

func skillKey(owner, name string) skillstate.SkillKey {
	return skillstate.SkillKey{Owner: owner, Name: name}
}

func summaryOrNil(entry *skillstate.SkillEntry) *skillstate.SkillSummary {
	if entry == nil {
		return nil
	}
	return skillstate.SummaryFromEntry(entry)
}

// loadMergedIndex loads config and the merged registry index for
// commands that need to resolve a skill outside of search/info/install.
func loadMergedIndex(opts commonOpts) (skillconfig.Config, *skillstate.SkillIndex, error) {
	cfg, err := skillconfig.Load()
	if err != nil {
		return cfg, nil, err
	}
	index, _, err := registrymerge.LoadRegistries(opts.Registries, opts.Remotes, cfg, opts.Subdir)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, index, nil
}
