// Package pipeline turns the pages of a claims statement into output records.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/async"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/extract"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/header"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/layout"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/legend"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/rows"
)

// Sink receives records in document order.
type Sink interface {
	Write(ctx context.Context, rec entity.OutputRecord) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, rec entity.OutputRecord) error

func (f SinkFunc) Write(ctx context.Context, rec entity.OutputRecord) error { return f(ctx, rec) }

type Summary = entity.RunSummary

type Options struct {
	Tolerance   float64          // line grouping tolerance; 0 -> layout.DefaultTolerance
	Legend      *legend.Detector // nil -> built-in marker
	Prefetch    int              // pages read ahead of the parser
	PageTimeout time.Duration    // 0 -> no per-page limit
}

// Processor runs the page loop. A Processor holds no per-document state and
// may be reused.
type Processor struct {
	logger *slog.Logger
	opts   Options
}

func NewProcessor(logger *slog.Logger, opts Options) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = layout.DefaultTolerance
	}
	if opts.Legend == nil {
		opts.Legend, _ = legend.NewDetector("", 0)
	}
	if opts.Prefetch < 0 {
		opts.Prefetch = 0
	}
	return &Processor{logger: logger, opts: opts}
}

// run is the state threaded from one page to the next.
type run struct {
	logger  *slog.Logger
	asm     *rows.Assembler
	tracker *Tracker
	sink    Sink
	sum     Summary

	claimTotals Totals
	claimRows   int
}

// Run processes pages 1..N of src in order and writes one record per service
// row to sink. An error aborts the run; records already handed to sink are
// the caller's to discard.
func (p *Processor) Run(ctx context.Context, src extract.PageSource, sink Sink) (Summary, error) {
	logger := p.logger
	if id := common.RunIDFromContext(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	st := &run{
		logger:  logger,
		asm:     rows.NewAssembler(logger),
		tracker: NewTracker(),
		sink:    sink,
	}

	start := time.Now()
	pf := async.NewPrefetcher(src, logger,
		async.WithBufferSize(p.opts.Prefetch),
		async.WithPageTimeout(p.opts.PageTimeout),
	)
	defer pf.Shutdown()

	for pg := range pf.Start(ctx) {
		if pg.Err != nil {
			logger.Error("pipeline.page.read_failed", "page", pg.Number, "error", pg.Err)
			return st.sum, common.WrapError(pg.Err, fmt.Sprintf("read page %d", pg.Number))
		}
		if err := p.page(ctx, st, pg.Number, pg.Runs); err != nil {
			logger.Error("pipeline.page.failed", "page", pg.Number, "code", common.Classify(err), "error", err)
			return st.sum, err
		}
	}
	if err := ctx.Err(); err != nil {
		return st.sum, err
	}

	if dropped, open := st.asm.Close(); open {
		st.sum.DroppedPending++
		logger.Warn("pipeline.pending.dropped",
			"reason", "document ended inside a service row",
			"buffer", dropped,
		)
	}

	logger.Info("pipeline.done",
		"pages", st.sum.Pages,
		"legend_pages", st.sum.LegendPages,
		"claims", st.sum.Claims,
		"records", st.sum.Records,
		"dropped_rows", st.sum.DroppedRows,
		"dropped_pending", st.sum.DroppedPending,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return st.sum, nil
}

func (p *Processor) page(ctx context.Context, st *run, n int, runs []entity.Run) error {
	st.sum.Pages++

	lines := layout.Reconstruct(runs, layout.Options{Tolerance: p.opts.Tolerance})
	text := layout.PageText(lines)
	hdr := header.Extract(text)

	carried, open := st.asm.Pending()
	found, err := st.asm.Feed(lines)
	if err != nil {
		return fmt.Errorf("page %d: %w", n, err)
	}

	if p.opts.Legend.IsLegendOnly(text, len(found)) {
		// a row open before the legend continues after it
		st.asm.Seed(carried, open)
		st.sum.LegendPages++
		st.logger.Debug("pipeline.page.legend", "page", n, "kind", constants.PageLegend, "pending", open)
		return nil
	}

	footer, _ := PageFooterNumber(lines)
	st.logger.Debug("pipeline.page",
		"page", n,
		"kind", constants.PageContent,
		"footer_page", footer,
		"lines", len(lines),
		"rows", len(found),
		"header_fields", hdr.Matched(),
	)

	active, replaced := st.tracker.Observe(hdr.Header)
	if replaced {
		st.sum.Claims++
		st.claimTotals, st.claimRows = Totals{}, 0
		st.logger.Debug("pipeline.claim.start", "page", n, "claim", active.Claim)
	}

	if active == nil {
		if len(found) > 0 {
			st.sum.DroppedRows += len(found)
			st.logger.Warn("pipeline.rows.orphaned", "page", n, "kind", constants.PageOrphaned, "rows", len(found))
		}
		return nil
	}

	for _, row := range found {
		if err := validateRow(row); err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
		rec := entity.OutputRecord{ClaimHeader: *active, ServiceRow: row, Page: n}
		if err := st.sink.Write(ctx, rec); err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
		st.sum.Records++
		st.claimRows++
		st.claimTotals = st.claimTotals.add(row.ProviderBilled, row.AmountPaid, row.YourResponsibility)
	}

	if printed, ok := ParseTotals(text); ok && st.claimRows > 0 && !printed.Equal(st.claimTotals) {
		st.logger.Warn("pipeline.claim.totals_mismatch",
			"page", n,
			"claim", active.Claim,
			"rows", st.claimRows,
			"printed_billed", printed.ProviderBilled.StringFixed(2),
			"summed_billed", st.claimTotals.ProviderBilled.StringFixed(2),
			"printed_paid", printed.AmountPaid.StringFixed(2),
			"summed_paid", st.claimTotals.AmountPaid.StringFixed(2),
			"printed_responsibility", printed.YourResponsibility.StringFixed(2),
			"summed_responsibility", st.claimTotals.YourResponsibility.StringFixed(2),
		)
	}
	return nil
}

var (
	reDate   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	reAmount = regexp.MustCompile(`^-?\d+\.\d{2}$`)
	reCodes  = regexp.MustCompile(`^[A-Z0-9]+(?: [A-Z0-9]+)*$`)
)

// validateRow re-checks a finished row before it leaves the pipeline.
func validateRow(r entity.ServiceRow) error {
	v := common.NewValidator()
	v.Field(string(constants.ColServiceDate), r.ServiceDate, common.Required, common.Matches(reDate, "a MM/DD/YYYY date"))
	v.Field(string(constants.ColServicesProvided), r.ServiceDescription, common.Required)
	v.Field(string(constants.ColProviderBilled), r.ProviderBilled, common.Matches(reAmount, "a fixed-point amount"))
	v.Field(string(constants.ColDMBAPaid), r.AmountPaid, common.Matches(reAmount, "a fixed-point amount"))
	v.Field(string(constants.ColYourResponsibility), r.YourResponsibility, common.Matches(reAmount, "a fixed-point amount"))
	v.Field(string(constants.ColMessageCodes), r.MessageCodes, common.MaxLength(rows.MaxCodesLen), common.Matches(reCodes, "message codes"))
	return common.ValidateAndReturnError(v)
}
