package rows

import (
	"regexp"
	"strings"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/money"
)

// MaxCodesLen bounds the message-code column, spaces included.
const MaxCodesLen = 40

var (
	reDateStart = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}\b`)
	reDate      = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	reCode      = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// StartsRow reports whether a line opens a service row.
func StartsRow(line string) bool {
	return reDateStart.MatchString(line)
}

// Match is a service row split into its printed parts, before money
// normalization.
type Match struct {
	Date        string
	Description string
	Amounts     [3]string
	Codes       string
}

// Parse splits a single-spaced row into date, description, the three amounts
// and the message codes.
//
// The row is read from the right. The trailing run of code tokens is found
// first, then the longest suffix of it that sits directly after three amounts
// wins. Numeric codes such as 17 also look like amounts, so the longest suffix
// is tried first; an amount printed with $ or a decimal point always ends the
// run, so an amount inside the description never shifts the columns.
func Parse(text string) (Match, bool) {
	tokens := strings.Fields(text)
	n := len(tokens)
	// date, description, three amounts, codes
	if n < 6 || !reDate.MatchString(tokens[0]) {
		return Match{}, false
	}

	run, width := 0, -1
	for m := 1; m <= n-5; m++ {
		tok := tokens[n-m]
		if !reCode.MatchString(tok) || width+len(tok)+1 > MaxCodesLen {
			break
		}
		width += len(tok) + 1
		run = m
	}

	for m := run; m >= 1; m-- {
		first := n - m - 3
		if !money.IsCurrencyToken(tokens[first]) ||
			!money.IsCurrencyToken(tokens[first+1]) ||
			!money.IsCurrencyToken(tokens[first+2]) {
			continue
		}
		return Match{
			Date:        tokens[0],
			Description: strings.Join(tokens[1:first], " "),
			Amounts:     [3]string{tokens[first], tokens[first+1], tokens[first+2]},
			Codes:       strings.Join(tokens[n-m:], " "),
		}, true
	}
	return Match{}, false
}
