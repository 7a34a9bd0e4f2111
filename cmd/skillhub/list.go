package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/manifest"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdList(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	installed, err := manifest.Load()
	if err != nil {
		return err
	}

	if len(installed.Skills) == 0 {
		fmt.Println("no skills installed")
		return nil
	}

	var rows [][]string
	for _, s := range installed.Skills {
		if opts.Owner != "" && s.Owner != opts.Owner {
			continue
		}
		if opts.Name != "" && s.Name != opts.Name {
			continue
		}
		status := manifest.CheckIntegrity(s)
		rows = append(rows, []string{
			status.String(), fmt.Sprintf("%s/%s", s.Owner, s.Name), "v" + s.Version, s.InstalledTo, s.Registry,
		})
	}

	if len(rows) == 0 {
		fmt.Println("no skills matched")
		return nil
	}

	ui.Table([]string{"Status", "Skill", "Version", "Installed To", "Registry"}, rows)
	return nil
}
