package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/runkids/skillhub/internal/install"
	"github.com/runkids/skillhub/internal/manifest"
	"github.com/runkids/skillhub/internal/registrymerge"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/skillhash"
	"github.com/runkids/skillhub/internal/trust"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdInstall(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub install <owner/name>")
	}
	owner, name, err := splitOwnerName(opts.Rest[0])
	if err != nil {
		return err
	}

	cfg, err := skillconfig.Load()
	if err != nil {
		return err
	}

	index, registryPaths, err := registrymerge.LoadRegistries(opts.Registries, opts.Remotes, cfg, opts.Subdir)
	if err != nil {
		return err
	}

	entry, ok := index.Skills[skillKey(owner, name)]
	if !ok {
		return fmt.Errorf("skill %s/%s not found in any configured registry", owner, name)
	}
	version := entry.Latest()
	if version == nil {
		return fmt.Errorf("%s/%s has no installable (non-yanked) version", owner, name)
	}

	registryIDs := make([]string, len(registryPaths))
	for i, p := range registryPaths {
		registryIDs[i] = registrymerge.RegistryID(p, opts.Remotes)
	}
	primaryRegistry := ""
	if len(registryIDs) > 0 {
		primaryRegistry = registryIDs[0]
	}

	trustState, err := trust.Load()
	if err != nil {
		return err
	}

	// Pin and audit both hash SKILL.md as installed, not skill.toml or
	// any other skillpack file: writeSkillToDir never writes skill.toml,
	// so version.ContentHash (a composite over every file) would never
	// match what's actually on disk.
	installedHash := skillhash.SHA256Hex(version.SkillMD)

	anyTrusted := ""
	for _, id := range registryIDs {
		if trustState.IsTrusted(id) {
			anyTrusted = id
			break
		}
	}

	var check trust.Check
	if anyTrusted != "" {
		check = trust.CheckTrust(trustState, anyTrusted, owner, name, installedHash)
	} else {
		check = trust.CheckTrust(trustState, primaryRegistry, owner, name, installedHash)
	}

	if check.Tier == trust.TierUnknown {
		if err := enforceUnknownPolicy(owner, name, opts.RequireTrusted, cfg); err != nil {
			return err
		}
	} else {
		ui.Info("trust: %s (%s)", check.Tier, check.Reason)
	}

	targets, err := skillconfig.ResolveTargets(opts.Targets, cfg)
	if err != nil {
		return err
	}

	installed, err := manifest.Load()
	if err != nil {
		return err
	}

	var spinner *ui.Spinner
	if len(targets) > 1 {
		spinner = ui.StartSpinnerWithSteps(fmt.Sprintf("installing %s/%s", owner, name), len(targets))
	}

	results, err := install.InstallSkill(owner, name, version, install.Options{
		Targets:  targets,
		Global:   opts.Global || cfg.Install.Global,
		Registry: primaryRegistry,
		OnTargetStart: func(target skillconfig.InstallTarget) {
			if spinner != nil {
				spinner.NextStep(fmt.Sprintf("writing to %s", target))
			}
		},
	}, installed)
	if spinner != nil {
		if err != nil {
			spinner.Fail(fmt.Sprintf("install of %s/%s failed", owner, name))
		} else {
			spinner.Success(fmt.Sprintf("installed %s/%s to %d targets", owner, name, len(targets)))
		}
	}
	if err != nil {
		return err
	}

	if err := installed.Save(); err != nil {
		return err
	}

	for _, r := range results {
		ui.Status(fmt.Sprintf("%s/%s", owner, name), "installed", fmt.Sprintf("%s (%d files)", r.Path, len(r.FilesWritten)))
	}

	if cfg.Trust.AutoPin {
		trustState.PinSkill(owner, name, version.Version, primaryRegistry, installedHash)
		if err := trustState.Save(); err != nil {
			return err
		}
	}

	return nil
}

// enforceUnknownPolicy applies the unknown-skill install policy in
// precedence order: explicit --require-trusted > config
// trust.require_trusted > config trust.unknown_policy.
func enforceUnknownPolicy(owner, name string, requireTrustedFlag bool, cfg skillconfig.Config) error {
	if requireTrustedFlag || cfg.Trust.RequireTrusted {
		return fmt.Errorf("refusing to install %s/%s: not trusted (pass through a trusted registry or pin it first)", owner, name)
	}

	switch cfg.Trust.UnknownPolicy {
	case "block":
		return fmt.Errorf("refusing to install %s/%s: registry not trusted and skill not pinned (trust.unknown_policy = block)", owner, name)
	case "prompt":
		if !ui.IsTTY() {
			return fmt.Errorf("refusing to install %s/%s: not trusted and no terminal to prompt (trust.unknown_policy = prompt)", owner, name)
		}
		ui.Warning("%s/%s is from an unknown/untrusted source.", owner, name)
		fmt.Print("Install anyway? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			return fmt.Errorf("installation of %s/%s declined", owner, name)
		}
		return nil
	default: // "warn", or unset
		ui.Warning("%s/%s is from an unknown/untrusted source; installing anyway (trust.unknown_policy = warn)", owner, name)
		return nil
	}
}
