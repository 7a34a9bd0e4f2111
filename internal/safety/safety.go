// Package safety performs pattern-based static analysis of skill content
// to flag dangerous or suspicious constructs before a skill is trusted,
// installed, packed, or published. It is a separate concern from
// internal/validate: validation checks structure, safety checks content.
package safety

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/runkids/skillhub/internal/skillstate"
)

// Severity classifies a safety finding.
type Severity int

const (
	// SeverityWarning is informational: shown to the user but does not block.
	SeverityWarning Severity = iota
	// SeverityDanger blocks validate/pack/publish (exit code 2).
	SeverityDanger
)

func (s Severity) String() string {
	if s == SeverityDanger {
		return "DANGER"
	}
	return "warning"
}

// Finding is a single match produced by scanning.
type Finding struct {
	RuleID   string
	Message  string
	Severity Severity
	File     string
	Matched  string
	// Line is the 1-based line number, or 0 if not applicable (e.g. the
	// overbroad-capabilities check, which has no associated line).
	Line int
}

// Report aggregates every finding from a scan.
type Report struct {
	Findings []Finding
}

// HasDanger reports whether any finding has SeverityDanger.
func (r Report) HasDanger() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityDanger {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the scan produced no findings at all.
func (r Report) IsEmpty() bool {
	return len(r.Findings) == 0
}

type rule struct {
	id          string
	description string
	severity    Severity
	pattern     *regexp.Regexp
}

var rules = []rule{
	// -- Danger: shell injection --
	{
		id:          "shell-injection-backtick",
		description: "Backtick command substitution in skill content",
		severity:    SeverityDanger,
		pattern:     regexp.MustCompile("`[^`]*\\b(curl|wget|bash|sh|python|ruby|perl|nc|ncat)\\b[^`]*`"),
	},
	{
		id:          "shell-injection-subshell",
		description: "$(command) substitution in skill content",
		severity:    SeverityDanger,
		pattern:     regexp.MustCompile(`\$\([^)]+\)`),
	},
	{
		id:          "shell-eval",
		description: "eval/exec with dynamic content",
		severity:    SeverityDanger,
		pattern:     regexp.MustCompile(`\b(eval|exec)\s+["'` + "`" + `$]`),
	},
	// -- Danger: hardcoded credentials --
	{
		id:          "hardcoded-api-key",
		description: "Hardcoded API key",
		severity:    SeverityDanger,
		pattern:     regexp.MustCompile(`(?i)api[_-]?key\s*[=:]\s*["'][A-Za-z0-9_\-]{16,}["']`),
	},
	{
		id:          "hardcoded-password",
		description: "Hardcoded password",
		severity:    SeverityDanger,
		pattern:     regexp.MustCompile(`(?i)password\s*[=:]\s*["'][^"']{4,}["']`),
	},
	{
		id:          "private-key",
		description: "Embedded private key material",
		severity:    SeverityDanger,
		pattern:     regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`),
	},
	{
		id:          "known-token-pattern",
		description: "Known token pattern (GitHub PAT, OpenAI key, AWS key)",
		severity:    SeverityDanger,
		pattern:     regexp.MustCompile(`\b(ghp_[A-Za-z0-9]{36}|sk-[A-Za-z0-9]{32,}|AKIA[A-Z0-9]{16})\b`),
	},
	// -- Warning: exfiltration --
	{
		id:          "exfiltration-curl",
		description: "curl/wget to external URL (potential data exfiltration)",
		severity:    SeverityWarning,
		pattern:     regexp.MustCompile(`\b(curl|wget)\s+.*https?://`),
	},
	{
		id:          "exfiltration-fetch",
		description: "fetch()/requests.post() to external URL",
		severity:    SeverityWarning,
		pattern:     regexp.MustCompile(`\b(fetch\s*\(\s*["']https?://|requests\.(post|put|patch)\s*\(\s*["']https?://)`),
	},
	// -- Warning: safety bypasses --
	{
		id:          "safety-bypass-no-verify",
		description: "Disabling safety checks (--no-verify, --insecure, --force)",
		severity:    SeverityWarning,
		pattern:     regexp.MustCompile(`--(no-verify|insecure|force)\b`),
	},
	{
		id:          "safety-bypass-yolo",
		description: "Disabling interactive prompts or safety guards",
		severity:    SeverityWarning,
		pattern:     regexp.MustCompile(`(DANGEROUSLY_DISABLE|--yes\s+--no-prompt)`),
	},
	// -- Warning: obfuscation --
	{
		id:          "obfuscation-base64",
		description: "Base64 decoding (potential obfuscated payload)",
		severity:    SeverityWarning,
		pattern:     regexp.MustCompile(`\b(base64\s+-d|base64\s+--decode|atob\s*\(|b64decode\s*\()`),
	},
	{
		id:          "obfuscation-hex",
		description: "Long hex escape sequences (potential obfuscated payload)",
		severity:    SeverityWarning,
		pattern:     regexp.MustCompile(`(\\x[0-9a-fA-F]{2}){8,}`),
	},
}

const overbroadCapabilitiesRuleID = "overbroad-capabilities"

// Scan scans SKILL.md, skill.toml raw text, and every extra file for
// matches against the built-in rule set, plus a non-regex check for
// over-broad capability requests. Rules whose id appears in suppressed
// are skipped entirely. Findings are sorted Danger before Warning, then
// by file, then by line.
func Scan(skillMD, skillTomlRaw string, files map[string]skillstate.SkillFile, metadata skillstate.SkillMetadata, suppressed []string) Report {
	suppress := make(map[string]bool, len(suppressed))
	for _, id := range suppressed {
		suppress[id] = true
	}

	var findings []Finding
	scanContent(skillMD, "SKILL.md", suppress, &findings)
	scanContent(skillTomlRaw, "skill.toml", suppress, &findings)

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		scanContent(files[path].Content, path, suppress, &findings)
	}

	checkCapabilities(metadata, suppress, &findings)

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})

	return Report{Findings: findings}
}

func scanContent(content, fileName string, suppress map[string]bool, findings *[]Finding) {
	for _, r := range rules {
		if suppress[r.id] {
			continue
		}

		for i, line := range strings.Split(content, "\n") {
			loc := r.pattern.FindString(line)
			if loc == "" {
				continue
			}

			*findings = append(*findings, Finding{
				RuleID:   r.id,
				Message:  r.description,
				Severity: r.severity,
				File:     fileName,
				Matched:  truncateMatch(loc, 60),
				Line:     i + 1,
			})
		}
	}
}

func checkCapabilities(metadata skillstate.SkillMetadata, suppress map[string]bool, findings *[]Finding) {
	if suppress[overbroadCapabilitiesRuleID] {
		return
	}

	compat := metadata.Skill.Compatibility
	if compat == nil || len(compat.RequiredCapabilities) == 0 {
		return
	}

	requested := make(map[string]bool, len(compat.RequiredCapabilities))
	for _, c := range compat.RequiredCapabilities {
		requested[c] = true
	}

	all := true
	for _, known := range skillstate.KnownCapabilities {
		if !requested[known] {
			all = false
			break
		}
	}
	if !all {
		return
	}

	*findings = append(*findings, Finding{
		RuleID:  overbroadCapabilitiesRuleID,
		Message: fmt.Sprintf("Skill requests all %d known capabilities -- unusually broad", len(skillstate.KnownCapabilities)),
		Severity: SeverityWarning,
		File:     "skill.toml",
		Matched:  fmt.Sprintf("required_capabilities = %v", compat.RequiredCapabilities),
	})
}

// TruncateMatch truncates s to max runes (well, bytes, matching content
// scanning elsewhere), appending "..." when truncated. Exported for CLI
// formatting of findings outside of Scan.
func TruncateMatch(s string, max int) string {
	return truncateMatch(s, max)
}

func truncateMatch(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	if cut < 0 {
		cut = 0
	}
	if cut > len(s) {
		cut = len(s)
	}
	return s[:cut] + "..."
}
