package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/project"
	"github.com/runkids/skillhub/internal/safety"
	"github.com/runkids/skillhub/internal/skillconfig"
	"github.com/runkids/skillhub/internal/ui"
	"github.com/runkids/skillhub/internal/validate"
)

// cmdValidate returns a process exit code directly: 0 on success, 1 on
// a structural validation failure, 2 when the safety scanner finds a
// Danger-severity issue.
func cmdValidate(args []string) (int, error) {
	opts, err := parseArgs(args)
	if err != nil {
		return 1, err
	}
	dir := "."
	if len(opts.Rest) == 1 {
		dir = opts.Rest[0]
	}

	result, err := runValidate(dir, opts.Lenient)
	if err != nil {
		return 1, err
	}

	cfg, err := skillconfig.Load()
	if err != nil {
		return 1, err
	}

	report := safety.Scan(result.SkillMD, result.SkillTomlRaw, result.Files, result.Metadata, cfg.Safety.Suppress)
	for _, w := range result.Warnings {
		ui.Warning("%s", w)
	}
	for _, f := range report.Findings {
		ui.Status(f.RuleID, f.Severity.String(), fmt.Sprintf("%s: %s", f.File, safety.TruncateMatch(f.Matched, 80)))
	}

	if report.HasDanger() {
		ui.Error("validation found dangerous content")
		return 2, nil
	}

	ui.Success("Validation passed")
	return 0, nil
}

func runValidate(dir string, lenient bool) (*validate.Result, error) {
	if !lenient {
		return validate.Validate(dir)
	}
	manifest, _ := project.LoadSkilletToml(dir)
	return validate.ValidateLenient(dir, manifest)
}
