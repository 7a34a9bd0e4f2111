package searchtui

import (
	"strings"
	"testing"

	"github.com/runkids/skillhub/internal/search"
	"github.com/runkids/skillhub/internal/skillstate"
)

func TestItemTitleIsOwnerSlashName(t *testing.T) {
	it := item{result: search.Result{Owner: "acme", Name: "code-review"}}
	if got := it.Title(); got != "acme/code-review" {
		t.Fatalf("Title() = %q", got)
	}
}

func TestItemDescriptionTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 200)
	it := item{summary: &skillstate.SkillSummary{Description: long}}
	desc := it.Description()
	if len(desc) != 83 {
		t.Fatalf("expected a truncated description of 83 runes (80 + ...), got %d: %q", len(desc), desc)
	}
	if !strings.HasSuffix(desc, "...") {
		t.Fatalf("expected truncated description to end with ..., got %q", desc)
	}
}

func TestItemDescriptionEmptyWithoutSummary(t *testing.T) {
	it := item{result: search.Result{Owner: "acme", Name: "tool"}}
	if desc := it.Description(); desc != "" {
		t.Fatalf("expected empty description without a summary, got %q", desc)
	}
}

func TestItemFilterValueCombinesTitleAndDescription(t *testing.T) {
	it := item{
		result:  search.Result{Owner: "acme", Name: "tool"},
		summary: &skillstate.SkillSummary{Description: "does things"},
	}
	fv := it.FilterValue()
	if !strings.Contains(fv, "acme/tool") || !strings.Contains(fv, "does things") {
		t.Fatalf("FilterValue() = %q", fv)
	}
}
