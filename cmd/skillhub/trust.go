package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/skillhash"
	"github.com/runkids/skillhub/internal/trust"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdTrust(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: skillhub trust {add-registry|remove-registry|list|pin|unpin} ...")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "add-registry":
		return cmdTrustAddRegistry(rest)
	case "remove-registry":
		return cmdTrustRemoveRegistry(rest)
	case "list":
		return cmdTrustList(rest)
	case "pin":
		return cmdTrustPin(rest)
	case "unpin":
		return cmdTrustUnpin(rest)
	default:
		return fmt.Errorf("unknown trust subcommand %q", sub)
	}
}

func cmdTrustAddRegistry(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub trust add-registry <registry-id> [--message <note>]")
	}
	state, err := trust.Load()
	if err != nil {
		return err
	}
	state.AddRegistry(opts.Rest[0], opts.Message)
	if err := state.Save(); err != nil {
		return err
	}
	ui.Success("trusted registry %s", opts.Rest[0])
	return nil
}

func cmdTrustRemoveRegistry(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub trust remove-registry <registry-id>")
	}
	state, err := trust.Load()
	if err != nil {
		return err
	}
	if !state.RemoveRegistry(opts.Rest[0]) {
		return fmt.Errorf("registry %s was not trusted", opts.Rest[0])
	}
	if err := state.Save(); err != nil {
		return err
	}
	ui.Success("removed trust for registry %s", opts.Rest[0])
	return nil
}

func cmdTrustList(args []string) error {
	state, err := trust.Load()
	if err != nil {
		return err
	}
	if len(state.TrustedRegistries) == 0 {
		ui.Info("no trusted registries")
	}
	for _, r := range state.TrustedRegistries {
		fmt.Printf("  %s (trusted %s)%s\n", r.Registry, r.TrustedAt, noteSuffix(r.Note))
	}
	if len(state.PinnedSkills) == 0 {
		ui.Info("no pinned skills")
		return nil
	}
	for _, p := range state.PinnedSkills {
		fmt.Printf("  %s/%s v%s pinned %s [%s]\n", p.Owner, p.Name, p.Version, p.PinnedAt, p.ContentHash[:12])
	}
	return nil
}

func noteSuffix(note string) string {
	if note == "" {
		return ""
	}
	return fmt.Sprintf(" - %s", note)
}

func cmdTrustPin(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub trust pin <owner/name>")
	}
	owner, name, err := splitOwnerName(opts.Rest[0])
	if err != nil {
		return err
	}

	state, err := trust.Load()
	if err != nil {
		return err
	}

	cfg, index, err := loadMergedIndex(opts)
	if err != nil {
		return err
	}
	_ = cfg
	entry, ok := index.Skills[skillKey(owner, name)]
	if !ok {
		return fmt.Errorf("skill %s/%s not found in any configured registry", owner, name)
	}
	version := entry.Latest()
	if version == nil {
		return fmt.Errorf("%s/%s has no installable version", owner, name)
	}

	state.PinSkill(owner, name, version.Version, "", skillhash.SHA256Hex(version.SkillMD))
	if err := state.Save(); err != nil {
		return err
	}
	ui.Success("pinned %s/%s v%s", owner, name, version.Version)
	return nil
}

func cmdTrustUnpin(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub trust unpin <owner/name>")
	}
	owner, name, err := splitOwnerName(opts.Rest[0])
	if err != nil {
		return err
	}
	state, err := trust.Load()
	if err != nil {
		return err
	}
	if !state.UnpinSkill(owner, name) {
		return fmt.Errorf("%s/%s was not pinned", owner, name)
	}
	if err := state.Save(); err != nil {
		return err
	}
	ui.Success("unpinned %s/%s", owner, name)
	return nil
}
