package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Metric is one counted outcome in an OperationSummary line, e.g.
// "5 installed" rendered in HighlightColor when stdout is a TTY.
type Metric struct {
	Label          string
	Count          int
	HighlightColor pterm.Color
}

// OperationSummary prints a one-line summary of a completed operation,
// e.g. "Install complete: 3 installed, 1 skipped, 0 failed (1.2s)".
// duration of 0 omits the trailing "(Ns)" suffix.
func OperationSummary(operation string, duration time.Duration, metrics ...Metric) {
	if !IsTTY() {
		fmt.Println(formatSummaryLine(operation, duration, metrics...))
		return
	}

	parts := make([]string, len(metrics))
	for i, m := range metrics {
		count := fmt.Sprint(m.Count)
		if m.HighlightColor != 0 {
			count = m.HighlightColor.Sprint(count)
		}
		parts[i] = fmt.Sprintf("%s %s", count, m.Label)
	}

	line := fmt.Sprintf("%s complete: %s", operation, strings.Join(parts, ", "))
	if duration > 0 {
		line += pterm.Gray(fmt.Sprintf(" (%.1fs)", duration.Seconds()))
	}
	fmt.Println(line)
}

// formatSummaryLine builds the plain-text (non-TTY) rendering of an
// operation summary, with no color codes.
func formatSummaryLine(operation string, duration time.Duration, metrics ...Metric) string {
	parts := make([]string, len(metrics))
	for i, m := range metrics {
		parts[i] = fmt.Sprintf("%d %s", m.Count, m.Label)
	}

	line := fmt.Sprintf("%s complete: %s", operation, strings.Join(parts, ", "))
	if duration > 0 {
		line += fmt.Sprintf(" (%.1fs)", duration.Seconds())
	}
	return line
}
