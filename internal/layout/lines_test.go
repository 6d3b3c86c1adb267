package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

func TestReconstructOrderIndependent(t *testing.T) {
	a := entity.Run{X: 10, Y: 100, Text: "A"}
	b := entity.Run{X: 50, Y: 100, Text: "B"}

	for _, runs := range [][]entity.Run{{a, b}, {b, a}} {
		got := Reconstruct(runs, Options{})
		if diff := cmp.Diff([]string{"A B"}, got); diff != "" {
			t.Fatalf("Reconstruct mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestReconstructTopToBottom(t *testing.T) {
	runs := []entity.Run{
		{X: 10, Y: 80, Text: "third"},
		{X: 10, Y: 700, Text: "first"},
		{X: 40, Y: 699.8, Text: "line"},
		{X: 10, Y: 400, Text: "second"},
	}
	got := Reconstruct(runs, Options{Tolerance: 1})
	want := []string{"first line", "second", "third"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconstruct mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructWhitespace(t *testing.T) {
	runs := []entity.Run{
		{X: 10, Y: 50, Text: " Claim"},
		{X: 30, Y: 50, Text: "T1234567   "},
		{X: 90, Y: 50, Text: "\t"},
		{X: 10, Y: 20, Text: "   "},
	}
	got := Reconstruct(runs, Options{})
	want := []string{"Claim T1234567"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Reconstruct mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructToleranceMergesBaselines(t *testing.T) {
	runs := []entity.Run{
		{X: 10, Y: 100.2, Text: "left"},
		{X: 60, Y: 101.4, Text: "right"},
	}
	if got := Reconstruct(runs, Options{Tolerance: 1}); len(got) != 2 {
		t.Fatalf("tolerance 1 should keep two lines, got %q", got)
	}
	if got := Reconstruct(runs, Options{Tolerance: 5}); len(got) != 1 || got[0] != "left right" {
		t.Fatalf("tolerance 5 should merge, got %q", got)
	}
}

func TestReconstructEmpty(t *testing.T) {
	if got := Reconstruct(nil, Options{}); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
	if got := PageText(nil); got != "" {
		t.Fatalf("PageText(nil) = %q", got)
	}
}

func TestReconstructNonBreakingSpaces(t *testing.T) {
	runs := []entity.Run{
		{X: 10, Y: 10, Text: "\u00a0\u00a0Patient"},
		{X: 70, Y: 10, Text: "JANE DOE"},
	}
	got := Reconstruct(runs, Options{})
	if diff := cmp.Diff([]string{"Patient JANE DOE"}, got); diff != "" {
		t.Fatalf("Reconstruct mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructLinesKeepsBaseline(t *testing.T) {
	runs := []entity.Run{
		{X: 5, Y: 40, Text: "bottom"},
		{X: 5, Y: 100.4, Text: "top"},
	}
	got := ReconstructLines(runs, Options{Tolerance: 2})
	want := []Line{{Y: 100, Text: "top"}, {Y: 40, Text: "bottom"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ReconstructLines mismatch (-want +got):\n%s", diff)
	}
	if PageText(Reconstruct(runs, Options{Tolerance: 2})) != "top\nbottom" {
		t.Fatal("PageText should join lines with newlines")
	}
}
