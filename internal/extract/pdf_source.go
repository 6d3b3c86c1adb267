package extract

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// DefaultWordGap is the horizontal gap, as a fraction of the font size, at
// which two glyphs stop belonging to the same run.
const DefaultWordGap = 0.3

// PDFSource reads the text layer of a PDF with the pure Go reader.
type PDFSource struct {
	f       *os.File
	r       *pdf.Reader
	wordGap float64
	logger  *slog.Logger
}

// OpenPDF opens path for page-by-page reading.
func OpenPDF(path string, wordGap float64, logger *slog.Logger) (*PDFSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if wordGap <= 0 {
		wordGap = DefaultWordGap
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed to open pdf", "path", path, "error", err)
		return nil, common.IOError("open pdf "+path, err)
	}
	logger.Debug("pdf opened", "path", path, "pages", r.NumPage())
	return &PDFSource{f: f, r: r, wordGap: wordGap, logger: logger}, nil
}

func (s *PDFSource) NumPages() int { return s.r.NumPage() }

// Page returns the runs of page n. The reader emits one text item per glyph;
// glyphs that touch on the same baseline are merged into word runs here.
func (s *PDFSource) Page(ctx context.Context, n int) (runs []entity.Run, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 || n > s.r.NumPage() {
		return nil, pageRangeError(n, s.r.NumPage())
	}
	p := s.r.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}

	// the reader panics on malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("pdf page content unreadable", "page", n, "panic", rec)
			runs, err = nil, common.IOError(fmt.Sprintf("read pdf page %d", n), fmt.Errorf("%v", rec))
		}
	}()
	return coalesceGlyphs(p.Content().Text, s.wordGap), nil
}

func (s *PDFSource) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// coalesceGlyphs joins consecutive glyphs into runs. A glyph continues the
// current run when it sits on the same baseline and starts less than
// wordGap*fontSize after the previous glyph ends. Space glyphs end a run.
func coalesceGlyphs(glyphs []pdf.Text, wordGap float64) []entity.Run {
	var (
		runs []entity.Run
		cur  strings.Builder
		run  entity.Run
		prev pdf.Text
		open bool
	)
	flush := func() {
		if open && cur.Len() > 0 {
			run.Text = cur.String()
			runs = append(runs, run)
		}
		cur.Reset()
		open = false
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		if open {
			size := math.Max(prev.FontSize, g.FontSize)
			gap := g.X - (prev.X + prev.W)
			sameLine := math.Abs(g.Y-prev.Y) <= size*0.2
			if !sameLine || gap > size*wordGap || gap < -size {
				flush()
			}
		}
		if !open {
			run = entity.Run{X: g.X, Y: g.Y}
			open = true
		}
		cur.WriteString(g.S)
		prev = g
	}
	flush()
	return runs
}
