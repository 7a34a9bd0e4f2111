// Package gitutil shells out to the system git binary for the minimal
// set of operations remote registry support needs: clone, pull, and
// HEAD inspection. No in-process git library is used.
package gitutil

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"

	"github.com/runkids/skillhub/internal/skillerr"
)

// Clone clones url into target as a shallow (depth 1) checkout.
func Clone(url, target string) error {
	cmd := exec.Command("git", "clone", "--depth", "1", url, target)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return skillerr.New(skillerr.KindGit, url, errors.New(strings.TrimSpace(string(out))))
	}
	return nil
}

// Pull pulls the latest changes into an existing clone at repoPath.
func Pull(repoPath string) error {
	cmd := exec.Command("git", "pull")
	cmd.Dir = repoPath
	out, err := cmd.CombinedOutput()
	if err != nil {
		return skillerr.New(skillerr.KindGit, repoPath, errors.New(strings.TrimSpace(string(out))))
	}
	return nil
}

// cloneProgress is Clone with onProgress invoked for each line of git's
// --progress output as the clone runs (stage name, percentage, etc).
func cloneProgress(url, target string, onProgress func(string)) error {
	cmd := exec.Command("git", "clone", "--progress", "--depth", "1", url, target)
	return runWithProgress(cmd, url, onProgress)
}

// pullProgress is Pull with onProgress invoked for each line of git's
// --progress output as the pull runs.
func pullProgress(repoPath string, onProgress func(string)) error {
	cmd := exec.Command("git", "pull", "--progress")
	cmd.Dir = repoPath
	return runWithProgress(cmd, repoPath, onProgress)
}

// runWithProgress starts cmd and feeds each line (or \r-redrawn segment)
// of its stderr to onProgress as the subprocess runs. Git writes its
// --progress output to stderr even on success.
func runWithProgress(cmd *exec.Cmd, label string, onProgress func(string)) error {
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return skillerr.New(skillerr.KindGit, label, err)
	}
	if err := cmd.Start(); err != nil {
		return skillerr.New(skillerr.KindGit, label, err)
	}

	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanLineOrCR)
	var lastLine string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lastLine = line
		if onProgress != nil {
			onProgress(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		return skillerr.New(skillerr.KindGit, label, errors.New(lastLine))
	}
	return nil
}

// scanLineOrCR splits on \n or \r: git's progress output redraws the
// current line with \r rather than emitting a new one per update.
func scanLineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Head returns the current HEAD commit hash of repoPath.
func Head(repoPath string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return "", skillerr.New(skillerr.KindGit, repoPath, errors.New(stderr))
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitAndPush stages everything under repoPath, commits with message
// if there are staged changes, and pushes to the current branch's
// upstream. It is a no-op (returns nil) if there is nothing to commit.
func CommitAndPush(repoPath, message string) error {
	add := exec.Command("git", "add", "-A")
	add.Dir = repoPath
	if out, err := add.CombinedOutput(); err != nil {
		return skillerr.New(skillerr.KindGit, repoPath, errors.New(strings.TrimSpace(string(out))))
	}

	diff := exec.Command("git", "diff", "--cached", "--quiet")
	diff.Dir = repoPath
	if err := diff.Run(); err == nil {
		pterm.Debug.Printfln("nothing to commit in %s", repoPath)
		return nil
	}

	commit := exec.Command("git", "commit", "-m", message)
	commit.Dir = repoPath
	if out, err := commit.CombinedOutput(); err != nil {
		return skillerr.New(skillerr.KindGit, repoPath, errors.New(strings.TrimSpace(string(out))))
	}

	push := exec.Command("git", "push")
	push.Dir = repoPath
	if out, err := push.CombinedOutput(); err != nil {
		return skillerr.New(skillerr.KindGit, repoPath, errors.New(strings.TrimSpace(string(out))))
	}
	return nil
}

// CloneOrPull clones url into target if it doesn't already contain a
// checkout, otherwise pulls the latest changes.
func CloneOrPull(url, target string) error {
	return CloneOrPullProgress(url, target, nil)
}

// CloneOrPullProgress behaves like CloneOrPull, additionally invoking
// onProgress with each line git reports while cloning or pulling. Callers
// that don't need live progress (e.g. tests) can pass a nil onProgress.
func CloneOrPullProgress(url, target string, onProgress func(string)) error {
	if _, err := os.Stat(filepath.Join(target, ".git")); err == nil {
		pterm.Debug.Printfln("pulling existing clone at %s", target)
		return pullProgress(target, onProgress)
	}
	pterm.Debug.Printfln("cloning %s into %s", url, target)
	return cloneProgress(url, target, onProgress)
}
