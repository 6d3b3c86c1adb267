// Package header pulls the claim identification block out of page text.
package header

import (
	"regexp"
	"strings"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

type field struct {
	column constants.Column
	re     *regexp.Regexp
	set    func(h *entity.ClaimHeader, v string)
}

// Each value runs from its label up to the label that follows it on the
// statement. Labels may be printed with or without a colon.
var fields = []field{
	{constants.ColClaim, regexp.MustCompile(`\bClaim\s*:?\s*(T\d{7,})`),
		func(h *entity.ClaimHeader, v string) { h.Claim = v }},
	{constants.ColPatient, regexp.MustCompile(`(?s)\bPatient\s*:?\s+(.+?)\s+Health\s*Plan\b`),
		func(h *entity.ClaimHeader, v string) { h.Patient = v }},
	{constants.ColHealthPlan, regexp.MustCompile(`(?s)\bHealth\s*Plan\s*:?\s+(.+?)\s+(?:Participant|Date\s*Entered)\b`),
		func(h *entity.ClaimHeader, v string) { h.HealthPlan = v }},
	{constants.ColParticipant, regexp.MustCompile(`(?s)\bParticipant\s*:?\s+(.+?)\s+Date\s*Entered\b`),
		func(h *entity.ClaimHeader, v string) { h.Participant = v }},
	{constants.ColParticipantID, regexp.MustCompile(`\bParticipant\s*Id\s*:?\s+([0-9]+)\b`),
		func(h *entity.ClaimHeader, v string) { h.ParticipantID = v }},
	{constants.ColDateEntered, regexp.MustCompile(`\bDate\s*Entered\s*:?\s+(\d{2}/\d{2}/\d{4})\b`),
		func(h *entity.ClaimHeader, v string) { h.DateEntered = v }},
	{constants.ColDatePaid, regexp.MustCompile(`\bDate\s*Paid\s*:?\s+(\d{2}/\d{2}/\d{4})\b`),
		func(h *entity.ClaimHeader, v string) { h.DatePaid = v }},
	{constants.ColProvider, regexp.MustCompile(`\bProvider\s*:?\s+(.+?)(?:\n|$)`),
		func(h *entity.ClaimHeader, v string) { h.Provider = v }},
}

// Result is a header together with the columns that were found.
type Result struct {
	Header  entity.ClaimHeader
	matched []string
}

// Matched lists the columns whose label was found, in output order.
func (r Result) Matched() []string { return r.matched }

// Extract parses the header fields of a page. Fields that are absent come
// back empty; that is not an error.
func Extract(pageText string) Result {
	var res Result
	for _, f := range fields {
		m := f.re.FindStringSubmatch(pageText)
		if m == nil {
			continue
		}
		v := strings.Join(strings.Fields(m[1]), " ")
		if v == "" {
			continue
		}
		f.set(&res.Header, v)
		res.matched = append(res.matched, string(f.column))
	}
	return res
}
