package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/gitutil"
	"github.com/runkids/skillhub/internal/pack"
	"github.com/runkids/skillhub/internal/ui"
)

// cmdPack returns an exit code directly: 0 on success, 1 on a
// structural error, 2 when the safety scanner finds Danger content.
func cmdPack(args []string) (int, error) {
	opts, err := parseArgs(args)
	if err != nil {
		return 1, err
	}
	dir := "."
	if len(opts.Rest) == 1 {
		dir = opts.Rest[0]
	}

	code, err := cmdValidate(args)
	if err != nil || code != 0 {
		return code, err
	}

	result, err := pack.Pack(dir)
	if err != nil {
		return 1, err
	}

	if result.ManifestUnchanged {
		ui.Info("MANIFEST.sha256 unchanged for %s", dir)
	} else {
		ui.Success("wrote %s", result.ManifestPath)
	}
	if result.NewVersionAdded {
		ui.Success("recorded version %s in %s", result.Version, result.VersionsPath)
	} else {
		ui.Info("version %s already recorded in %s", result.Version, result.VersionsPath)
	}
	return 0, nil
}

// cmdPublish packs dir and, if it sits inside a git checkout, commits
// and pushes the result. It never pushes if pack/validate failed.
func cmdPublish(args []string) (int, error) {
	opts, err := parseArgs(args)
	if err != nil {
		return 1, err
	}
	dir := "."
	if len(opts.Rest) == 1 {
		dir = opts.Rest[0]
	}

	code, err := cmdPack(args)
	if err != nil || code != 0 {
		return code, err
	}

	message := opts.Message
	if message == "" {
		message = fmt.Sprintf("publish %s", dir)
	}
	if err := gitutil.CommitAndPush(dir, message); err != nil {
		return 1, err
	}
	ui.Success("published %s", dir)
	return 0, nil
}
