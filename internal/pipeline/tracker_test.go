package pipeline

import (
	"testing"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

func TestTracker(t *testing.T) {
	tr := NewTracker()
	if got, replaced := tr.Observe(entity.ClaimHeader{Patient: "NOBODY"}); got != nil || replaced {
		t.Fatalf("header without claim opened a context: %+v", got)
	}

	got, replaced := tr.Observe(entity.ClaimHeader{Claim: "T1234567", Patient: "A"})
	if !replaced || got.Claim != "T1234567" {
		t.Fatalf("Observe = %+v, %v", got, replaced)
	}
	got.Patient = "mutated"
	if tr.Active().Patient != "A" {
		t.Fatal("caller mutated tracker state")
	}

	got, replaced = tr.Observe(entity.ClaimHeader{Provider: "ELSEWHERE"})
	if replaced || got.Claim != "T1234567" || got.Provider != "" {
		t.Fatalf("continuation changed the context: %+v", got)
	}
}

func TestPageFooterNumber(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
		ok    bool
	}{
		{"bottom", []string{"a", "b", "Page 3 of 7"}, 3, true},
		{"case", []string{"PAGE 12"}, 12, true},
		{"too high", []string{"Page 2", "1", "2", "3", "4", "5"}, 0, false},
		{"none", []string{"Claim T1234567"}, 0, false},
		{"empty", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PageFooterNumber(tt.lines)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("PageFooterNumber = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseTotals(t *testing.T) {
	got, ok := ParseTotals("01/02/2025 X $1.00 $1.00 $0.00 B6\nTotals $1,150.00 ($20.00) $0.00\nPage 1")
	if !ok {
		t.Fatal("totals line not found")
	}
	if got.ProviderBilled.StringFixed(2) != "1150.00" || got.AmountPaid.StringFixed(2) != "-20.00" {
		t.Fatalf("ParseTotals = %+v", got)
	}
	if _, ok := ParseTotals("Subtotals $1.00 $1.00 $1.00"); ok {
		t.Fatal("matched a line not starting with Totals")
	}
}
