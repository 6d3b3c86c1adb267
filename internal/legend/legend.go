// Package legend recognizes pages that only carry the message-code key.
package legend

import (
	"fmt"
	"regexp"
)

var (
	reLegendMarker = regexp.MustCompile(`(?i)\bCode\s+Description\b`)
	reLegendLine   = regexp.MustCompile(`(?m)^[A-Z0-9]{1,4}\b\s+.+`)
)

// DefaultMinLines is how many code lines a legend page needs.
const DefaultMinLines = 2

// Detector classifies pages as legend-only.
type Detector struct {
	marker   *regexp.Regexp
	minLines int
}

// NewDetector builds a detector. An empty marker keeps the built-in
// "Code Description" heading; minLines < 1 keeps DefaultMinLines.
func NewDetector(marker string, minLines int) (*Detector, error) {
	d := &Detector{marker: reLegendMarker, minLines: DefaultMinLines}
	if marker != "" {
		re, err := regexp.Compile(marker)
		if err != nil {
			return nil, fmt.Errorf("legend marker: %w", err)
		}
		d.marker = re
	}
	if minLines > 0 {
		d.minLines = minLines
	}
	return d, nil
}

// IsLegendOnly reports whether a page should be skipped: it produced no rows,
// it carries the legend heading, and it lists enough code lines.
func (d *Detector) IsLegendOnly(pageText string, rowCount int) bool {
	if rowCount > 0 {
		return false
	}
	if !d.marker.MatchString(pageText) {
		return false
	}
	return len(reLegendLine.FindAllStringIndex(pageText, d.minLines)) >= d.minLines
}

var defaultDetector = &Detector{marker: reLegendMarker, minLines: DefaultMinLines}

// IsLegendOnly uses the built-in marker and threshold.
func IsLegendOnly(pageText string, rowCount int) bool {
	return defaultDetector.IsLegendOnly(pageText, rowCount)
}
