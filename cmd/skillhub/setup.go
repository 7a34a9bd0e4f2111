package main

import (
	"os"

	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/ui"
)

// cmdSetup writes a starter config.toml with the defaults skillhub
// would otherwise apply implicitly, so a new user has something to edit.
func cmdSetup(args []string) error {
	path := skillconfig.Path()
	if _, err := os.Stat(path); err == nil {
		ui.Info("%s already exists", path)
		return nil
	}

	cfg := skillconfig.Default()
	if err := cfg.Save(); err != nil {
		return err
	}
	ui.Success("wrote starter config to %s", path)
	return nil
}
