package export

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/repository"
)

// SQLWriter stores records in the service_lines table and the run in
// extract_runs. Lines are inserted in one transaction.
type SQLWriter struct {
	db     *repository.DB
	runs   repository.RunRepository
	lines  *repository.LineWriter
	runID  uuid.UUID
	own    bool    // close db when done
	file   *staged // set when writing a new SQLite file
	start  time.Time
	logger *slog.Logger
}

// NewSQLWriter records a run in an already open database. The caller keeps
// ownership of db.
func NewSQLWriter(ctx context.Context, db *repository.DB, format constants.Format, opts Options) (*SQLWriter, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	runs := repository.NewRunRepository(db, opts.Logger)
	if err := runs.Start(ctx, repository.RunInfo{
		ID:           opts.RunID,
		Source:       opts.Source,
		SourceSHA256: opts.SourceSHA256,
		Format:       string(format),
	}); err != nil {
		return nil, err
	}
	lines, err := db.BeginLines(ctx, opts.RunID)
	if err != nil {
		_ = runs.Fail(ctx, opts.RunID, err.Error())
		return nil, err
	}
	return &SQLWriter{
		db:     db,
		runs:   runs,
		lines:  lines,
		runID:  opts.RunID,
		start:  time.Now(),
		logger: opts.Logger,
	}, nil
}

// NewSQLiteWriter writes a fresh SQLite database file at path. The database
// is built under a temporary name and renamed into place on commit.
func NewSQLiteWriter(ctx context.Context, path string, opts Options) (*SQLWriter, error) {
	out, err := stage(path)
	if err != nil {
		return nil, err
	}
	// sqlite opens the file itself
	_ = out.f.Close()

	db, err := repository.OpenSQLite(ctx, out.tmpName(), opts.Logger)
	if err != nil {
		_ = os.Remove(out.tmpName())
		return nil, err
	}
	w, err := NewSQLWriter(ctx, db, constants.SQLite, opts)
	if err != nil {
		db.Close()
		_ = os.Remove(out.tmpName())
		return nil, err
	}
	w.own, w.file = true, out
	return w, nil
}

// RunID identifies the stored run.
func (s *SQLWriter) RunID() uuid.UUID { return s.runID }

func (s *SQLWriter) Write(ctx context.Context, rec entity.OutputRecord) error {
	return s.lines.Insert(ctx, rec)
}

func (s *SQLWriter) Commit(ctx context.Context, sum entity.RunSummary) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.lines.Commit(); err != nil {
		_ = s.runs.Fail(ctx, s.runID, err.Error())
		s.release()
		return err
	}
	if err := s.runs.Finish(ctx, s.runID, sum); err != nil {
		s.release()
		return err
	}
	if s.own {
		s.db.Close()
	}
	if s.file != nil {
		if err := os.Rename(s.file.tmpName(), s.file.path); err != nil {
			_ = os.Remove(s.file.tmpName())
			s.logger.Error("export.sql.failed", "path", s.file.path, "error", err)
			return err
		}
	}
	s.logger.Info("export.sql.ok",
		"run_id", s.runID,
		"dialect", s.db.Dialect(),
		"rows", s.lines.Count(),
		"elapsed_ms", time.Since(s.start).Milliseconds(),
	)
	return nil
}

func (s *SQLWriter) Abort(ctx context.Context, cause error) {
	// the run row is updated even when ctx was canceled
	ctx = context.WithoutCancel(ctx)
	if err := s.lines.Rollback(); err != nil {
		s.logger.Error("export.sql.rollback_failed", "run_id", s.runID, "error", err)
	}
	msg := "aborted"
	if cause != nil {
		msg = cause.Error()
	}
	_ = s.runs.Fail(ctx, s.runID, msg)
	s.release()
	s.logger.Debug("export.sql.aborted", "run_id", s.runID, "cause", cause)
}

// release closes an owned database and removes its unfinished file.
func (s *SQLWriter) release() {
	if s.own {
		s.db.Close()
	}
	if s.file != nil {
		_ = os.Remove(s.file.tmpName())
	}
}
