package selfupdate

import "testing"

func TestParseVersion(t *testing.T) {
	parts, ok := parseVersion("1.2.3")
	if !ok {
		t.Fatalf("expected parseVersion to succeed")
	}
	if len(parts) != 3 || parts[0] != 1 || parts[1] != 2 || parts[2] != 3 {
		t.Fatalf("parseVersion(1.2.3) = %v", parts)
	}
}

func TestParseVersionRejectsNonNumeric(t *testing.T) {
	if _, ok := parseVersion("1.2.dev"); ok {
		t.Fatalf("expected parseVersion to reject a non-numeric segment")
	}
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.3.0", "1.2.9", 1},
		{"1.2.0", "1.3.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.2", "1.2.0", -1},
	}
	for _, c := range cases {
		a, _ := parseVersion(c.a)
		b, _ := parseVersion(c.b)
		got := compareVersions(a, b)
		if (got > 0 && c.want <= 0) || (got < 0 && c.want >= 0) || (got == 0 && c.want != 0) {
			t.Fatalf("compareVersions(%s, %s) = %d, want sign of %d", c.a, c.b, got, c.want)
		}
	}
}

func TestUpgradeMessageNoneWhenCurrent(t *testing.T) {
	if msg := upgradeMessage("1.2.3", "v1.2.3"); msg != "" {
		t.Fatalf("expected no message when already current, got %q", msg)
	}
}

func TestUpgradeMessageNewerAvailable(t *testing.T) {
	msg := upgradeMessage("1.2.3", "v1.3.0")
	if msg == "" {
		t.Fatalf("expected an upgrade message when a newer release exists")
	}
}

func TestUpgradeMessageCurrentIsNewer(t *testing.T) {
	if msg := upgradeMessage("2.0.0", "v1.9.0"); msg != "" {
		t.Fatalf("expected no message when current is already newer, got %q", msg)
	}
}

func TestUpgradeMessageUnparseableVersionsAreSilent(t *testing.T) {
	if msg := upgradeMessage("dev", "v1.0.0"); msg != "" {
		t.Fatalf("expected no message for an unparseable current version, got %q", msg)
	}
}
