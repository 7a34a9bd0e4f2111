package main

import (
	"fmt"

	"github.com/runkids/skillhub/internal/manifest"
	"github.com/runkids/skillhub/internal/trust"
	"github.com/runkids/skillhub/internal/ui"
)

func cmdAudit(args []string) (int, error) {
	opts, err := parseArgs(args)
	if err != nil {
		return 1, err
	}

	installed, err := manifest.Load()
	if err != nil {
		return 1, err
	}
	state, err := trust.Load()
	if err != nil {
		return 1, err
	}

	results := trust.Audit(installed, state, opts.Owner, opts.Name)
	if len(results) == 0 {
		ui.Info("no installed skills to audit")
		return 0, nil
	}

	for _, r := range results {
		ui.Status(fmt.Sprintf("%s/%s", r.Owner, r.Name), r.Status.String(), r.InstalledTo)
	}

	printAuditSummary(results)

	if trust.HasProblems(results) {
		return 2, nil
	}
	return 0, nil
}

// printAuditSummary renders a status-count table summarizing an audit run.
func printAuditSummary(results []trust.AuditResult) {
	order := []trust.Status{trust.StatusOK, trust.StatusModified, trust.StatusUnpinned, trust.StatusMissing}
	counts := make(map[trust.Status]int)
	for _, r := range results {
		counts[r.Status]++
	}

	var rows [][]string
	for _, s := range order {
		if n, ok := counts[s]; ok {
			rows = append(rows, []string{s.String(), fmt.Sprint(n)})
		}
	}
	if len(rows) == 0 {
		return
	}

	fmt.Println()
	ui.Table([]string{"Status", "Count"}, rows)
}
