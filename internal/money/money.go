// Package money canonicalizes currency-like text found on claim statements.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Pattern is the shape of an amount as printed: optional parentheses, minus,
// dollar sign, thousands separators and cents. It is not anchored.
const Pattern = `\(?-?\$?(?:\d{1,3}(?:,\d{3})*|\d+)(?:\.\d{2})?\)?`

var reCurrencyToken = regexp.MustCompile(`^` + Pattern + `$`)

// Amount is the result of normalizing one money string. When Parsed is false,
// Text holds the input unchanged.
type Amount struct {
	Text   string
	Parsed bool
}

func (a Amount) String() string { return a.Text }

// Normalize converts "$1,234.56" to "1234.56" and "(12.00)" to "-12.00".
// Anything that is not a number afterwards is passed through untouched.
func Normalize(raw string) Amount {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	s = strings.TrimPrefix(s, "$")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	// a minus may sit in front of the dollar sign
	s = strings.ReplaceAll(s, "$", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Text: raw}
	}
	return Amount{Text: d.StringFixed(2), Parsed: true}
}

// IsCurrencyToken reports whether tok, as a whole, is printed like an amount.
// Unbalanced parentheses are rejected.
func IsCurrencyToken(tok string) bool {
	if !reCurrencyToken.MatchString(tok) {
		return false
	}
	return strings.HasPrefix(tok, "(") == strings.HasSuffix(tok, ")")
}

// CountTokens counts the whitespace separated tokens of s that are amounts.
func CountTokens(s string) int {
	n := 0
	for _, tok := range strings.Fields(s) {
		if IsCurrencyToken(tok) {
			n++
		}
	}
	return n
}
