package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
)

type Config struct {
	Engine    constants.Engine // empty -> pdf
	Pdftotext string           // binary name or absolute path; if empty -> "pdftotext"
	WordGap   float64          // glyph gap, relative to font size, that splits words; default 0.3
}

// Open returns the page source for path using the configured engine.
func Open(ctx context.Context, path string, cfg Config, logger *slog.Logger) (PageSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Engine {
	case constants.EnginePDF, "":
		return OpenPDF(path, cfg.WordGap, logger)
	case constants.EnginePdftotext:
		return OpenBBox(ctx, path, cfg.Pdftotext, execRunner{logger: logger}, logger)
	default:
		logger.Error("unsupported extraction engine", "engine", cfg.Engine)
		return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("unsupported engine %q", cfg.Engine), common.ErrInvalidInput)
	}
}

func pageRangeError(n, total int) error {
	return fmt.Errorf("page %d out of range 1..%d: %w", n, total, common.ErrInvalidInput)
}
