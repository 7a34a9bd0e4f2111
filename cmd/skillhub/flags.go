package main

import (
	"fmt"
	"strconv"
)

// registryFlags holds the flags common to every command that resolves
// a set of registries: --registry (repeatable), --remote (repeatable),
// --subdir.
type registryFlags struct {
	Registries []string
	Remotes    []string
	Subdir     string
}

// commonOpts accumulates flags shared across several commands plus the
// positional arguments left over after flag parsing.
type commonOpts struct {
	registryFlags
	Targets        []string
	Global         bool
	Limit          int
	RequireTrusted bool
	Lenient        bool
	Owner          string
	Name           string
	Version        string
	Message        string
	NoTUI          bool
	Rest           []string
}

// parseArgs walks args left to right, recognizing the shared flag set
// and collecting everything else as positional.
func parseArgs(args []string) (commonOpts, error) {
	opts := commonOpts{Limit: 20}

	for i := 0; i < len(args); i++ {
		a := args[i]
		next := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", a)
			}
			i++
			return args[i], nil
		}

		switch a {
		case "--registry", "-r":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Registries = append(opts.Registries, v)
		case "--remote":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Remotes = append(opts.Remotes, v)
		case "--subdir":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Subdir = v
		case "--target", "-t":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Targets = append(opts.Targets, v)
		case "--global", "-g":
			opts.Global = true
		case "--limit", "-n":
			v, err := next()
			if err != nil {
				return opts, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("invalid --limit value: %s", v)
			}
			opts.Limit = n
		case "--require-trusted":
			opts.RequireTrusted = true
		case "--lenient":
			opts.Lenient = true
		case "--owner":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Owner = v
		case "--name":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Name = v
		case "--version":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Version = v
		case "--message", "-m":
			v, err := next()
			if err != nil {
				return opts, err
			}
			opts.Message = v
		case "--no-tui":
			opts.NoTUI = true
		default:
			opts.Rest = append(opts.Rest, a)
		}
	}

	return opts, nil
}

// splitOwnerName splits an "owner/name" identifier.
func splitOwnerName(s string) (owner, name string, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("expected owner/name, got %q", s)
}
