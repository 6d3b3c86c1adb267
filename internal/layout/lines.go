// Package layout rebuilds reading order from positioned text runs.
package layout

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// DefaultTolerance is the y rounding unit used when Options leaves it unset.
const DefaultTolerance = 1.0

var reMultiSpace = regexp.MustCompile(`\s{2,}`)

// nbsp maps the no-break space family onto a plain space.
var nbsp = runes.Map(func(r rune) rune {
	switch r {
	case '\u00a0', '\u202f', '\u2007':
		return ' '
	}
	return r
})

type Options struct {
	// Tolerance is the unit y coordinates are rounded to before runs are
	// merged onto one line.
	Tolerance float64
}

// Line is one reconstructed line of page text.
type Line struct {
	Y    float64 // baseline of the group, in rounded units times Tolerance
	Text string
}

// Reconstruct orders runs top to bottom and left to right and returns one
// string per visual line. Blank lines are omitted.
func Reconstruct(runs []entity.Run, opts Options) []string {
	lines := ReconstructLines(runs, opts)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

// ReconstructLines is Reconstruct with the y position of each line kept.
func ReconstructLines(runs []entity.Run, opts Options) []Line {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	groups := make(map[int64][]entity.Run)
	for _, r := range runs {
		key := int64(math.Round(r.Y / tol))
		r.Text = normalizeSpaces(r.Text)
		groups[key] = append(groups[key], r)
	}

	keys := make([]int64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	// pdf space: larger y is higher on the page
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	lines := make([]Line, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].X != group[j].X {
				return group[i].X < group[j].X
			}
			return group[i].Text < group[j].Text
		})
		parts := make([]string, len(group))
		for i, r := range group {
			parts[i] = r.Text
		}
		text := strings.TrimSpace(reMultiSpace.ReplaceAllString(strings.Join(parts, " "), " "))
		if text == "" {
			continue
		}
		lines = append(lines, Line{Y: float64(k) * tol, Text: text})
	}
	return lines
}

// PageText joins reconstructed lines with newlines, which is the form header
// extraction and legend detection work on.
func PageText(lines []string) string {
	return strings.Join(lines, "\n")
}

func normalizeSpaces(s string) string {
	out, _, err := transform.String(nbsp, s)
	if err != nil {
		return s
	}
	return out
}
