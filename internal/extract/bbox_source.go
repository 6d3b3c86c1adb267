package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// BBoxSource holds the word boxes produced by `pdftotext -bbox`. The whole
// document is converted up front; Page only slices the result.
type BBoxSource struct {
	pages [][]entity.Run
}

// OpenBBox runs pdftotext on path and parses its XHTML output.
func OpenBBox(ctx context.Context, path, bin string, r Runner, logger *slog.Logger) (*BBoxSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if bin == "" {
		bin = "pdftotext"
	}
	if r == nil {
		r = execRunner{logger: logger}
	}

	stdout, stderr, err := r.Run(ctx, bin, "-bbox", "-enc", "UTF-8", path, "-")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, common.IOError(fmt.Sprintf("pdftotext %s: %s", path, strings.TrimSpace(truncate(string(stderr), 512))), err)
	}

	pages, err := ParseBBox(bytes.NewReader(stdout))
	if err != nil {
		logger.Error("failed to parse pdftotext output", "path", path, "error", err)
		return nil, common.IOError("parse pdftotext output", err)
	}
	logger.Debug("pdftotext done", "path", path, "pages", len(pages))
	return &BBoxSource{pages: pages}, nil
}

func (s *BBoxSource) NumPages() int { return len(s.pages) }

func (s *BBoxSource) Page(ctx context.Context, n int) ([]entity.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 || n > len(s.pages) {
		return nil, pageRangeError(n, len(s.pages))
	}
	return s.pages[n-1], nil
}

func (s *BBoxSource) Close() error { return nil }

// ParseBBox reads the pdftotext -bbox document. Each <page> becomes one
// slice of runs; word Y is flipped so that it grows upward from the page
// bottom like native PDF coordinates.
func ParseBBox(r io.Reader) ([][]entity.Run, error) {
	z := html.NewTokenizer(r)
	var (
		pages   [][]entity.Run
		height  float64
		inPage  bool
		inWord  bool
		current entity.Run
		text    strings.Builder
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return pages, nil
			}
			return nil, z.Err()

		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "page":
				h, err := floatAttr(tok, "height")
				if err != nil {
					return nil, err
				}
				height = h
				inPage = true
				pages = append(pages, nil)
			case "word":
				if !inPage {
					return nil, fmt.Errorf("word outside page")
				}
				xMin, err := floatAttr(tok, "xmin")
				if err != nil {
					return nil, err
				}
				yMax, err := floatAttr(tok, "ymax")
				if err != nil {
					return nil, err
				}
				current = entity.Run{X: xMin, Y: height - yMax}
				text.Reset()
				inWord = true
			}

		case html.TextToken:
			if inWord {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "word":
				if inWord {
					current.Text = strings.TrimSpace(text.String())
					if current.Text != "" {
						pages[len(pages)-1] = append(pages[len(pages)-1], current)
					}
					inWord = false
				}
			case "page":
				inPage = false
			}
		}
	}
}

func floatAttr(tok html.Token, key string) (float64, error) {
	for _, a := range tok.Attr {
		if a.Key == key {
			v, err := strconv.ParseFloat(a.Val, 64)
			if err != nil {
				return 0, fmt.Errorf("%s attribute %q: %w", key, a.Val, err)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("<%s> missing %s attribute", tok.Data, key)
}
