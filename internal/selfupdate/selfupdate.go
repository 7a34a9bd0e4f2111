// Package selfupdate performs a best-effort, cached check against the
// latest GitHub release tag for skillhub itself, printed as a one-line
// upgrade hint. It never blocks a command: any failure (no `gh`
// binary, no network, no releases, unwritable cache) is swallowed.
package selfupdate

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/runkids/skillhub/internal/registrymerge"
)

// checkInterval is how often a live check is performed; cached results
// are reused between checks.
const checkInterval = 24 * time.Hour

// githubRepo is the repository whose releases are checked.
const githubRepo = "runkids/skillhub"

type versionCache struct {
	CheckedAtUnix int64  `json:"checked_at_unix"`
	LatestTag     string `json:"latest_tag"`
}

// CheckAndNotify returns an upgrade hint message if a newer release is
// available, or "" if not (including every failure case). current is
// the running binary's version, without a leading "v".
func CheckAndNotify(current string) string {
	now := time.Now().Unix()

	if cache, ok := readCache(); ok && now-cache.CheckedAtUnix < int64(checkInterval.Seconds()) {
		return upgradeMessage(current, cache.LatestTag)
	}

	tag, ok := fetchLatestRelease()
	if !ok {
		return ""
	}

	writeCache(versionCache{CheckedAtUnix: now, LatestTag: tag})
	return upgradeMessage(current, tag)
}

func fetchLatestRelease() (string, bool) {
	cmd := exec.Command("gh", "api", "repos/"+githubRepo+"/releases/latest", "--jq", ".tag_name")
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	tag := strings.TrimSpace(string(out))
	if tag == "" {
		return "", false
	}
	return tag, true
}

func upgradeMessage(current, latestTag string) string {
	latest := strings.TrimPrefix(latestTag, "v")
	if latest == current {
		return ""
	}

	currentParts, ok := parseVersion(current)
	if !ok {
		return ""
	}
	latestParts, ok := parseVersion(latest)
	if !ok {
		return ""
	}

	if compareVersions(latestParts, currentParts) > 0 {
		return "\nA new version of skillhub is available: v" + latest + " (current: v" + current + ")\n" +
			"Run `go install github.com/" + githubRepo + "/cmd/skillhub@latest` to upgrade."
	}
	return ""
}

func parseVersion(v string) ([]uint64, bool) {
	parts := strings.Split(v, ".")
	out := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func compareVersions(a, b []uint64) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func cachePath() string {
	return filepath.Join(registrymerge.DefaultCacheDir(), "version-check.json")
}

func readCache() (versionCache, bool) {
	data, err := os.ReadFile(cachePath())
	if err != nil {
		return versionCache{}, false
	}
	var cache versionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return versionCache{}, false
	}
	return cache, true
}

func writeCache(cache versionCache) {
	path := cachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := json.Marshal(cache)
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o644)
}
