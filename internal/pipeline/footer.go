package pipeline

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/money"
)

// footerWindow is how many trailing lines are searched for the page number.
const footerWindow = 5

var (
	rePageFooter = regexp.MustCompile(`(?i)\bPage\s+(\d+)\b`)
	reTotals     = regexp.MustCompile(`(?m)^Totals\s+(` + money.Pattern + `)\s+(` + money.Pattern + `)\s+(` + money.Pattern + `)(?:\s|$)`)
)

// PageFooterNumber returns the printed page number from the bottom of a page.
func PageFooterNumber(lines []string) (int, bool) {
	start := len(lines) - footerWindow
	if start < 0 {
		start = 0
	}
	for _, ln := range lines[start:] {
		m := rePageFooter.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// Totals is the claim summary line printed below the service rows.
type Totals struct {
	ProviderBilled     decimal.Decimal
	AmountPaid         decimal.Decimal
	YourResponsibility decimal.Decimal
}

// ParseTotals finds the first "Totals" line on a page.
func ParseTotals(pageText string) (Totals, bool) {
	m := reTotals.FindStringSubmatch(pageText)
	if m == nil {
		return Totals{}, false
	}
	var vals [3]decimal.Decimal
	for i, raw := range m[1:4] {
		amt := money.Normalize(raw)
		if !amt.Parsed {
			return Totals{}, false
		}
		vals[i] = decimal.RequireFromString(amt.Text)
	}
	return Totals{ProviderBilled: vals[0], AmountPaid: vals[1], YourResponsibility: vals[2]}, true
}

func (t Totals) add(billed, paid, resp string) Totals {
	return Totals{
		ProviderBilled:     t.ProviderBilled.Add(parseOrZero(billed)),
		AmountPaid:         t.AmountPaid.Add(parseOrZero(paid)),
		YourResponsibility: t.YourResponsibility.Add(parseOrZero(resp)),
	}
}

func (t Totals) Equal(o Totals) bool {
	return t.ProviderBilled.Equal(o.ProviderBilled) &&
		t.AmountPaid.Equal(o.AmountPaid) &&
		t.YourResponsibility.Equal(o.YourResponsibility)
}

func parseOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
