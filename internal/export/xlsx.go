package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// SheetName is the worksheet that holds the records.
const SheetName = "Claims"

// XLSXWriter builds a workbook in memory and writes it on commit. Amounts are
// kept as text so that the two-digit form is preserved.
type XLSXWriter struct {
	path   string
	f      *excelize.File
	row    int
	start  time.Time
	logger *slog.Logger
}

func NewXLSXWriter(path string, logger *slog.Logger) (*XLSXWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, common.IOError("xlsx sheet", err)
	}
	idx, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(idx)

	x := &XLSXWriter{path: path, f: f, row: 1, start: time.Now(), logger: logger}
	if err := x.writeRow(constants.OutputColumns()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return x, nil
}

func (x *XLSXWriter) writeRow(values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, x.row)
		if err != nil {
			return common.IOError("xlsx cell", err)
		}
		if err := x.f.SetCellValue(SheetName, cell, v); err != nil {
			return common.IOError("xlsx cell "+cell, err)
		}
	}
	x.row++
	return nil
}

func (x *XLSXWriter) Write(_ context.Context, rec entity.OutputRecord) error {
	return x.writeRow(rec.Values())
}

func (x *XLSXWriter) Commit(_ context.Context, sum entity.RunSummary) error {
	defer x.f.Close()

	// Widen a few columns
	_ = x.f.SetColWidth(SheetName, "A", "A", 12) // claim
	_ = x.f.SetColWidth(SheetName, "B", "D", 22) // patient, plan, participant
	_ = x.f.SetColWidth(SheetName, "E", "G", 14) // id, dates
	_ = x.f.SetColWidth(SheetName, "H", "H", 32) // provider
	_ = x.f.SetColWidth(SheetName, "I", "I", 12) // service date
	_ = x.f.SetColWidth(SheetName, "J", "J", 40) // services
	_ = x.f.SetColWidth(SheetName, "K", "M", 16) // amounts
	_ = x.f.SetColWidth(SheetName, "N", "N", 14) // codes
	_ = x.f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	out, err := stage(x.path)
	if err != nil {
		return err
	}
	if err := x.f.Write(out.f); err != nil {
		out.discard()
		x.logger.Error("export.xlsx.failed", "path", x.path, "error", err)
		return common.IOError("xlsx write", err)
	}
	if err := out.commit(); err != nil {
		x.logger.Error("export.xlsx.failed", "path", x.path, "error", err)
		return err
	}
	x.logger.Info("export.xlsx.ok",
		"path", x.path,
		"rows", x.row-2,
		"pages", sum.Pages,
		"elapsed_ms", time.Since(x.start).Milliseconds(),
	)
	return nil
}

func (x *XLSXWriter) Abort(_ context.Context, cause error) {
	_ = x.f.Close()
	x.logger.Debug("export.xlsx.aborted", "path", x.path, "cause", cause)
}
