// Package rows assembles service lines that wrap over several physical lines,
// and pages, into parsed rows.
package rows

import (
	"log/slog"
	"strings"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/money"
)

// MinAmounts is how many amount tokens a buffer needs before it is worth
// checking against the row grammar.
const MinAmounts = 3

// Assembler merges lines into service rows. It holds at most one partial row,
// which survives from one Feed call to the next so that rows may continue on
// the following page.
type Assembler struct {
	logger  *slog.Logger
	pending string
	open    bool
}

func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Seed restores a partial row carried over from an earlier page.
func (a *Assembler) Seed(pending string, open bool) {
	a.pending, a.open = pending, open
}

// Pending returns the partial row, if any.
func (a *Assembler) Pending() (string, bool) {
	return a.pending, a.open
}

// Feed consumes the lines of one page in order and returns the rows that were
// completed on it.
func (a *Assembler) Feed(lines []string) ([]entity.ServiceRow, error) {
	var out []entity.ServiceRow
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !a.open {
			if !StartsRow(line) {
				// text between tables, headings, totals
				continue
			}
			a.pending, a.open = line, true
		} else {
			a.pending = a.pending + " " + line
		}

		row, done, err := a.tryFinalize()
		if err != nil {
			return out, err
		}
		if done {
			out = append(out, row)
		}
	}
	return out, nil
}

// Close ends the document. A row that never completed is returned so the
// caller can report it; it is not emitted.
func (a *Assembler) Close() (string, bool) {
	dropped, open := a.pending, a.open
	a.pending, a.open = "", false
	return dropped, open
}

func (a *Assembler) tryFinalize() (entity.ServiceRow, bool, error) {
	if money.CountTokens(a.pending) < MinAmounts {
		return entity.ServiceRow{}, false, nil
	}
	oneLine := strings.Join(strings.Fields(a.pending), " ")
	m, ok := Parse(oneLine)
	if !ok {
		a.logger.Debug("rows.finalize.deferred", "buffer", oneLine)
		return entity.ServiceRow{}, false, nil
	}

	row, err := toServiceRow(m)
	if err != nil {
		return entity.ServiceRow{}, false, err
	}
	a.pending, a.open = "", false
	return row, true, nil
}

func toServiceRow(m Match) (entity.ServiceRow, error) {
	var amounts [3]string
	for i, raw := range m.Amounts {
		amt := money.Normalize(raw)
		if !amt.Parsed {
			return entity.ServiceRow{}, common.InvariantErrorf("amount %q accepted by the row grammar is not a number (row %q)", raw, m.Date+" "+m.Description)
		}
		amounts[i] = amt.Text
	}
	return entity.ServiceRow{
		ServiceDate:        m.Date,
		ServiceDescription: m.Description,
		ProviderBilled:     amounts[0],
		AmountPaid:         amounts[1],
		YourResponsibility: amounts[2],
		MessageCodes:       m.Codes,
	}, nil
}
