package ui

import "testing"

func TestColumnWidthsTracksWidestCell(t *testing.T) {
	headers := []string{"Status", "Skill"}
	rows := [][]string{
		{"ok", "acme/tool"},
		{"MODIFIED", "acme/x"},
	}

	widths := columnWidths(headers, rows)
	if widths[0] != len("MODIFIED") {
		t.Fatalf("widths[0] = %d, want %d", widths[0], len("MODIFIED"))
	}
	if widths[1] != len("acme/tool") {
		t.Fatalf("widths[1] = %d, want %d", widths[1], len("acme/tool"))
	}
}

func TestColumnWidthsIgnoresExtraCells(t *testing.T) {
	headers := []string{"Name"}
	rows := [][]string{{"short", "ignored-extra-column"}}

	widths := columnWidths(headers, rows)
	if len(widths) != 1 {
		t.Fatalf("expected one column width, got %d", len(widths))
	}
	if widths[0] != len("short") {
		t.Fatalf("widths[0] = %d, want %d", widths[0], len("short"))
	}
}
