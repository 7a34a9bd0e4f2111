package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/scaffold"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdInitSkill(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	dir := "."
	if len(opts.Rest) == 1 {
		dir = opts.Rest[0]
	}
	owner, name := opts.Owner, opts.Name
	if owner == "" || name == "" {
		return fmt.Errorf("usage: skillhub init-skill [dir] --owner <owner> --name <name> [--message <description>]")
	}
	if err := scaffold.Skill(dir, owner, name, opts.Message); err != nil {
		return err
	}
	ui.Success("scaffolded %s/%s at %s", owner, name, dir)
	return nil
}

func cmdInitRegistry(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.Rest) != 1 {
		return fmt.Errorf("usage: skillhub init-registry <path> --name <registry-name>")
	}
	path := opts.Rest[0]
	name := opts.Name
	if name == "" {
		name = path
	}
	if err := scaffold.Registry(path, name); err != nil {
		return err
	}
	ui.Success("initialized registry %q at %s", name, path)
	return nil
}

func cmdInitProject(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	dir := "."
	if len(opts.Rest) == 1 {
		dir = opts.Rest[0]
	}
	if opts.Name == "" {
		return fmt.Errorf("usage: skillhub init-project [dir] --name <name> [--message <description>]")
	}
	if err := scaffold.Project(dir, opts.Name, opts.Message); err != nil {
		return err
	}
	ui.Success("scaffolded project %q at %s", opts.Name, dir)
	return nil
}
