package repository

import (
	"context"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// RunInfo identifies a run and its input.
type RunInfo struct {
	ID           uuid.UUID
	Source       string
	SourceSHA256 string
	Format       string
}

// RunRepository records one row per extraction run.
type RunRepository interface {
	Start(ctx context.Context, run RunInfo) error
	Finish(ctx context.Context, runID uuid.UUID, sum entity.RunSummary) error
	Fail(ctx context.Context, runID uuid.UUID, message string) error
}

type runRepo struct {
	db  *DB
	log *slog.Logger
}

func NewRunRepository(db *DB, log *slog.Logger) RunRepository {
	if log == nil {
		log = db.logger
	}
	return &runRepo{db: db, log: log}
}

func (r *runRepo) Start(ctx context.Context, run RunInfo) error {
	query, args := r.db.builder().Insert(tableRuns).
		Columns("run_id", "source", "source_sha256", "format", "status", "started_at").
		Values(run.ID.String(), run.Source, run.SourceSHA256, run.Format, RunRunning, now()).
		Query()
	if err := r.db.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("extract_run start failed", "run_id", run.ID, "err", err)
		return dbError("start run", err)
	}
	r.log.Debug("extract_run started", "run_id", run.ID, "source", run.Source, "format", run.Format)
	return nil
}

func (r *runRepo) Finish(ctx context.Context, runID uuid.UUID, sum entity.RunSummary) error {
	query, args := r.db.builder().Update(tableRuns).
		Set("status", RunDone).
		Set("finished_at", now()).
		Set("pages", sum.Pages).
		Set("legend_pages", sum.LegendPages).
		Set("claims", sum.Claims).
		Set("records", sum.Records).
		Set("dropped_rows", sum.DroppedRows).
		Set("dropped_pending", sum.DroppedPending).
		Where(entsql.EQ("run_id", runID.String())).
		Query()
	if err := r.db.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("extract_run finish failed", "run_id", runID, "err", err)
		return dbError("finish run", err)
	}
	r.log.Debug("extract_run finished", "run_id", runID, "records", sum.Records)
	return nil
}

func (r *runRepo) Fail(ctx context.Context, runID uuid.UUID, message string) error {
	query, args := r.db.builder().Update(tableRuns).
		Set("status", RunFailed).
		Set("error", message).
		Set("finished_at", now()).
		Where(entsql.EQ("run_id", runID.String())).
		Query()
	if err := r.db.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("extract_run fail update failed", "run_id", runID, "err", err)
		return dbError("fail run", err)
	}
	r.log.Warn("extract_run failed", "run_id", runID, "error", message)
	return nil
}

// RunStatus returns the stored status of a run.
func (d *DB) RunStatus(ctx context.Context, runID uuid.UUID) (string, error) {
	query, args := d.builder().Select("status").
		From(d.builder().Table(tableRuns)).
		Where(entsql.EQ("run_id", runID.String())).
		Query()
	var rows entsql.Rows
	if err := d.drv.Query(ctx, query, args, &rows); err != nil {
		return "", dbError("run status", err)
	}
	defer rows.Close()
	var status string
	if rows.Next() {
		if err := rows.Scan(&status); err != nil {
			return "", dbError("run status", err)
		}
	}
	return status, rows.Err()
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }
