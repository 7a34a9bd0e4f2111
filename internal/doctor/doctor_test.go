package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runkids/skillhub/internal/skillconfig"
)

func withHome(t *testing.T) {
	t.Helper()
	original := os.Getenv("HOME")
	home := t.TempDir()
	os.Setenv("HOME", home)
	t.Cleanup(func() { os.Setenv("HOME", original) })
}

func TestCheckConfigDirWritable(t *testing.T) {
	withHome(t)
	check := checkConfigDirWritable()
	if check.Severity != SeverityOK {
		t.Fatalf("expected OK, got %s: %s", check.Severity, check.Detail)
	}
}

func TestCheckGitFindsBinary(t *testing.T) {
	check := checkGit()
	if check.Severity != SeverityOK {
		t.Skipf("git not on PATH in this environment: %s", check.Detail)
	}
}

func TestCheckLocalRegistryMissing(t *testing.T) {
	check := checkLocalRegistry(filepath.Join(t.TempDir(), "does-not-exist"))
	if check.Severity != SeverityError {
		t.Fatalf("expected error for missing registry, got %s", check.Severity)
	}
}

func TestCheckLocalRegistryExists(t *testing.T) {
	check := checkLocalRegistry(t.TempDir())
	if check.Severity != SeverityOK {
		t.Fatalf("expected ok for existing directory, got %s: %s", check.Severity, check.Detail)
	}
}

func TestCheckLocalRegistryNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	check := checkLocalRegistry(path)
	if check.Severity != SeverityError {
		t.Fatalf("expected error for non-directory registry, got %s", check.Severity)
	}
}

func TestHasErrors(t *testing.T) {
	ok := []Check{{Severity: SeverityOK}, {Severity: SeverityWarning}}
	if HasErrors(ok) {
		t.Fatalf("expected no errors among ok/warning checks")
	}
	withError := append(ok, Check{Severity: SeverityError})
	if !HasErrors(withError) {
		t.Fatalf("expected HasErrors to detect the error check")
	}
}

func TestRunCoversConfiguredLocalRegistries(t *testing.T) {
	withHome(t)
	valid := t.TempDir()
	missing := filepath.Join(t.TempDir(), "gone")

	cfg := skillconfig.Default()
	cfg.Registries.Local = []string{valid, missing}
	cfg.Registries.Remote = nil

	checks := Run(cfg)
	var sawValid, sawMissing bool
	for _, c := range checks {
		if c.Name == "registry "+valid && c.Severity == SeverityOK {
			sawValid = true
		}
		if c.Name == "registry "+missing && c.Severity == SeverityError {
			sawMissing = true
		}
	}
	if !sawValid {
		t.Fatalf("expected a passing check for the valid local registry: %+v", checks)
	}
	if !sawMissing {
		t.Fatalf("expected a failing check for the missing local registry: %+v", checks)
	}
	if !HasErrors(checks) {
		t.Fatalf("expected Run to surface the missing registry as an error")
	}
}
