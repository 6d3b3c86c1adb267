package export

import (
	"context"
	"encoding/csv"
	"log/slog"
	"time"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// CSVWriter streams records to a staged CSV file. The header row is written
// up front so that an empty run still produces it.
type CSVWriter struct {
	out    *staged
	w      *csv.Writer
	rows   int
	start  time.Time
	logger *slog.Logger
}

func NewCSVWriter(path string, logger *slog.Logger) (*CSVWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	out, err := stage(path)
	if err != nil {
		logger.Error("export.csv.create_failed", "path", path, "error", err)
		return nil, err
	}
	w := csv.NewWriter(out.f)
	if err := w.Write(constants.OutputColumns()); err != nil {
		out.discard()
		return nil, common.IOError("write csv header", err)
	}
	return &CSVWriter{out: out, w: w, start: time.Now(), logger: logger}, nil
}

func (c *CSVWriter) Write(_ context.Context, rec entity.OutputRecord) error {
	if err := c.w.Write(rec.Values()); err != nil {
		return common.IOError("write csv row", err)
	}
	c.rows++
	return nil
}

func (c *CSVWriter) Commit(_ context.Context, sum entity.RunSummary) error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.out.discard()
		return common.IOError("flush csv", err)
	}
	if err := c.out.commit(); err != nil {
		c.logger.Error("export.csv.failed", "path", c.out.path, "error", err)
		return err
	}
	c.logger.Info("export.csv.ok",
		"path", c.out.path,
		"rows", c.rows,
		"pages", sum.Pages,
		"elapsed_ms", time.Since(c.start).Milliseconds(),
	)
	return nil
}

func (c *CSVWriter) Abort(_ context.Context, cause error) {
	c.out.discard()
	c.logger.Debug("export.csv.aborted", "path", c.out.path, "cause", cause)
}
