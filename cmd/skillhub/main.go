// Command skillhub is a skill registry and distribution toolkit for AI
// agents: discover, search, validate, pack, and install content-addressed
// skill packages from git-backed registries under a trust model.
package main

import (
	"fmt"
	"os"

	"github.com/runkids/skillhub/internal/selfupdate"
	"github.com/runkids/skillhub/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	cmd := args[0]
	rest := args[1:]

	var err error
	exitCode := 0

	switch cmd {
	case "search":
		err = cmdSearch(rest)
	case "info":
		err = cmdInfo(rest)
	case "categories":
		err = cmdCategories(rest)
	case "install":
		err = cmdInstall(rest)
	case "list":
		err = cmdList(rest)
	case "validate":
		exitCode, err = cmdValidate(rest)
	case "pack":
		exitCode, err = cmdPack(rest)
	case "publish":
		exitCode, err = cmdPublish(rest)
	case "init-skill":
		err = cmdInitSkill(rest)
	case "init-registry":
		err = cmdInitRegistry(rest)
	case "init-project":
		err = cmdInitProject(rest)
	case "setup":
		err = cmdSetup(rest)
	case "trust":
		err = cmdTrust(rest)
	case "audit":
		exitCode, err = cmdAudit(rest)
	case "repos":
		err = cmdRepos(rest)
	case "doctor":
		exitCode, err = cmdDoctor(rest)
	case "diff":
		err = cmdDiff(rest)
	case "version", "-v", "--version":
		fmt.Printf("skillhub %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		ui.Error("unknown command: %s", cmd)
		printUsage()
		return 1
	}

	if err != nil {
		ui.Error("%v", err)
		if exitCode == 0 {
			exitCode = 1
		}
	}

	if cmd != "version" && cmd != "-v" && cmd != "--version" && cmd != "help" && cmd != "-h" && cmd != "--help" {
		if msg := selfupdate.CheckAndNotify(version); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	}

	return exitCode
}

func printUsage() {
	fmt.Println(`skillhub - skill registry and distribution toolkit

Usage:
  skillhub <command> [options]

Commands:
  search <query>                 Search skills by relevance (BM25)
  info <owner/name>               Show details for one skill
  categories                      List categories across the merged index
  install <owner/name>            Install a skill to one or more targets
  list                             List installed skills
  validate <dir>                  Validate a skillpack directory
  pack <dir>                       Write MANIFEST.sha256 and versions.toml
  publish <dir>                    Pack, then commit and push the registry
  init-skill [dir] --owner O --name N  Scaffold a new skill.toml + SKILL.md
  init-registry <path>             Scaffold a new git-backed registry
  init-project                     Scaffold a new skillet.toml project
  setup                            Write a starter config.toml
  trust add-registry <registry>   Mark a registry as trusted
  trust remove-registry <reg>     Remove a trusted registry
  trust list                       List trusted registries and pins
  trust pin <owner/name>           Pin a skill's current content hash
  trust unpin <owner/name>         Remove a pin
  audit                            Check installed skills against pins
  repos                            List the registry's curated repo catalog
  doctor                           Check environment and registry health
  diff <owner/name>                Show drift for an installed skill
  version                          Show version
  help                             Show this help

Common flags:
  --registry PATH    (repeatable) a local registry root
  --remote URL       (repeatable) a git registry URL
  --subdir PATH       subdirectory within each registry to index
  --target NAME      (repeatable) install target: agents|claude|cursor|copilot|windsurf|gemini|all
  --global            install to the user's global directory, not the project
  --limit N           max results (search)
  --require-trusted   refuse to install from an unknown-trust skill
  --no-tui            disable the interactive picker/preview, print plain text

Examples:
  skillhub search "rust project setup"
  skillhub install anthropics/code-review --target claude
  skillhub validate ./my-skill
  skillhub pack ./my-skill`)
}
