package async

import (
	"context"
	"errors"
	"testing"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/extract"
)

func TestPrefetcherPreservesOrder(t *testing.T) {
	var pages [][]entity.Run
	for i := 0; i < 20; i++ {
		pages = append(pages, []entity.Run{{Text: string(rune('a' + i))}})
	}
	src := extract.NewStaticSource(pages...)

	for _, size := range []int{0, 1, 4} {
		p := NewPrefetcher(src, nil, WithBufferSize(size))
		want := 1
		for pg := range p.Start(context.Background()) {
			if pg.Err != nil {
				t.Fatalf("size %d: page %d: %v", size, pg.Number, pg.Err)
			}
			if pg.Number != want {
				t.Fatalf("size %d: got page %d, want %d", size, pg.Number, want)
			}
			if pg.Runs[0].Text != string(rune('a'+want-1)) {
				t.Fatalf("size %d: page %d carries %q", size, want, pg.Runs[0].Text)
			}
			want++
		}
		p.Shutdown()
		if want != 21 {
			t.Fatalf("size %d: delivered %d pages, want 20", size, want-1)
		}
	}
}

type failingSource struct {
	extract.StaticSource
	failAt int
}

var errBroken = errors.New("broken page")

func (f *failingSource) Page(ctx context.Context, n int) ([]entity.Run, error) {
	if n == f.failAt {
		return nil, errBroken
	}
	return f.StaticSource.Page(ctx, n)
}

func TestPrefetcherStopsAtFirstError(t *testing.T) {
	src := &failingSource{
		StaticSource: extract.StaticSource{Pages: make([][]entity.Run, 5)},
		failAt:       3,
	}
	p := NewPrefetcher(src, nil, WithBufferSize(2))
	defer p.Shutdown()

	var got []int
	var lastErr error
	for pg := range p.Start(context.Background()) {
		got = append(got, pg.Number)
		lastErr = pg.Err
	}
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("pages delivered = %v, want [1 2 3]", got)
	}
	if !errors.Is(lastErr, errBroken) {
		t.Fatalf("last err = %v", lastErr)
	}
}

func TestPrefetcherShutdownEarly(t *testing.T) {
	src := extract.NewStaticSource(make([][]entity.Run, 100)...)
	p := NewPrefetcher(src, nil, WithBufferSize(0))
	ch := p.Start(context.Background())
	<-ch
	p.Shutdown()
	for range ch {
	}
}
