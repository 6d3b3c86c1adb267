// Package export writes output records to their destination formats.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// Writer receives the records of one run. Nothing is visible at the
// destination until Commit succeeds; Abort discards everything.
type Writer interface {
	Write(ctx context.Context, rec entity.OutputRecord) error
	Commit(ctx context.Context, sum entity.RunSummary) error
	Abort(ctx context.Context, cause error)
}

// Options carries what the writers need besides the path.
type Options struct {
	RunID        uuid.UUID // stored with SQL output
	Source       string    // input document, stored with SQL output
	SourceSHA256 string
	Logger       *slog.Logger
}

// Open creates the writer for format at path.
func Open(ctx context.Context, format constants.Format, path string, opts Options) (Writer, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	switch format {
	case constants.CSV:
		return NewCSVWriter(path, opts.Logger)
	case constants.XLSX:
		return NewXLSXWriter(path, opts.Logger)
	case constants.JSON:
		return NewJSONWriter(path, opts.Logger)
	case constants.SQLite:
		return NewSQLiteWriter(ctx, path, opts)
	default:
		return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("unsupported output format %q", format), common.ErrInvalidInput)
	}
}

// FormatFor picks the output format: an explicit override wins, otherwise the
// extension decides and anything unknown is CSV.
func FormatFor(path string, override constants.Format) constants.Format {
	if override != "" {
		return override
	}
	return constants.MapExtToFormat(filepath.Ext(path))
}

// staged is an output file written under a temporary name in the target
// directory and renamed into place on commit.
type staged struct {
	path string
	f    *os.File
}

func stage(path string) (*staged, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, common.IOError("create output "+path, err)
	}
	return &staged{path: path, f: f}, nil
}

func (s *staged) tmpName() string { return s.f.Name() }

// commit closes the temp file and moves it over the destination.
func (s *staged) commit() error {
	if err := s.f.Close(); err != nil {
		_ = os.Remove(s.f.Name())
		return common.IOError("close output "+s.path, err)
	}
	if err := os.Rename(s.f.Name(), s.path); err != nil {
		_ = os.Remove(s.f.Name())
		return common.IOError("write output "+s.path, err)
	}
	return nil
}

func (s *staged) discard() {
	_ = s.f.Close()
	_ = os.Remove(s.f.Name())
}

// Multi fans records out to several writers. Commit stops at the first
// failure and aborts the writers that were not committed yet.
func Multi(ws ...Writer) Writer { return multi(ws) }

type multi []Writer

func (m multi) Write(ctx context.Context, rec entity.OutputRecord) error {
	for _, w := range m {
		if err := w.Write(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (m multi) Commit(ctx context.Context, sum entity.RunSummary) error {
	for i, w := range m {
		if err := w.Commit(ctx, sum); err != nil {
			for _, rest := range m[i+1:] {
				rest.Abort(ctx, err)
			}
			return err
		}
	}
	return nil
}

func (m multi) Abort(ctx context.Context, cause error) {
	for _, w := range m {
		w.Abort(ctx, cause)
	}
}
