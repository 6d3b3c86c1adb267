package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/extract"
)

// Page is one page pulled from a source. Err is set on the last value
// delivered when reading failed.
type Page struct {
	Number int
	Runs   []entity.Run
	Err    error
}

// Prefetcher reads pages ahead of the consumer on a single goroutine.
// Pages are delivered strictly in document order.
type Prefetcher struct {
	src     extract.PageSource
	logger  *slog.Logger
	size    int
	timeout time.Duration

	ch     chan Page
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

type Option func(*Prefetcher)

// WithBufferSize sets how many pages may be read ahead. Zero hands pages
// over one at a time.
func WithBufferSize(n int) Option {
	return func(p *Prefetcher) {
		if n >= 0 {
			p.size = n
		}
	}
}

// WithPageTimeout bounds the time spent reading a single page.
func WithPageTimeout(d time.Duration) Option {
	return func(p *Prefetcher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPrefetcher(src extract.PageSource, logger *slog.Logger, opts ...Option) *Prefetcher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Prefetcher{
		src:    src,
		logger: logger,
		size:   4,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Start begins reading and returns the page channel. The channel is closed
// after the last page, after the first error, or once ctx is done.
func (p *Prefetcher) Start(ctx context.Context) <-chan Page {
	p.once.Do(func() {
		ctx, p.cancel = context.WithCancel(ctx)
		p.ch = make(chan Page, p.size)
		p.wg.Add(1)
		go p.run(ctx)
	})
	return p.ch
}

func (p *Prefetcher) run(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.ch)

	total := p.src.NumPages()
	p.logger.Debug("prefetch.started", "pages", total, "buffer", p.size)
	for n := 1; n <= total; n++ {
		runs, err := p.read(ctx, n)
		select {
		case p.ch <- Page{Number: n, Runs: runs, Err: err}:
		case <-ctx.Done():
			p.logger.Debug("prefetch.canceled", "page", n)
			return
		}
		if err != nil {
			p.logger.Debug("prefetch.stopped", "page", n, "error", err)
			return
		}
	}
	p.logger.Debug("prefetch.done", "pages", total)
}

func (p *Prefetcher) read(ctx context.Context, n int) ([]entity.Run, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.src.Page(ctx, n)
}

// Shutdown stops reading ahead and waits for the goroutine to exit.
func (p *Prefetcher) Shutdown() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.wg.Wait()
}
