package extract

import (
	"context"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// PageSource is stage 1: a document -> positioned text runs, one page at a
// time. Pages are numbered from 1. Implementations need not be safe for
// concurrent use.
type PageSource interface {
	NumPages() int
	Page(ctx context.Context, n int) ([]entity.Run, error)
	Close() error
}

// StaticSource serves pages that are already in memory.
type StaticSource struct {
	Pages [][]entity.Run
}

func NewStaticSource(pages ...[]entity.Run) *StaticSource {
	return &StaticSource{Pages: pages}
}

func (s *StaticSource) NumPages() int { return len(s.Pages) }

func (s *StaticSource) Page(ctx context.Context, n int) ([]entity.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 || n > len(s.Pages) {
		return nil, pageRangeError(n, len(s.Pages))
	}
	return s.Pages[n-1], nil
}

func (s *StaticSource) Close() error { return nil }
