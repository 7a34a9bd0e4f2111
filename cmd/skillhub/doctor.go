package main

import (
	"github.com/runkids/skillhub/internal/doctor"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/ui"
)

// cmdDoctor returns exit code 1 if any check errored, 0 otherwise.
func cmdDoctor(args []string) (int, error) {
	cfg, err := skillconfig.Load()
	if err != nil {
		return 1, err
	}

	checks := doctor.Run(cfg)
	for _, c := range checks {
		ui.Status(c.Name, c.Severity.String(), c.Detail)
	}

	if doctor.HasErrors(checks) {
		return 1, nil
	}
	return 0, nil
}
