package repository

import (
	"context"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// LineWriter inserts the service lines of one run inside a transaction.
// Nothing is visible to other readers until Commit.
type LineWriter struct {
	db    *DB
	tx    dialect.Tx
	runID uuid.UUID
	seq   int
	log   *slog.Logger
}

// BeginLines opens the transaction that holds a run's lines.
func (d *DB) BeginLines(ctx context.Context, runID uuid.UUID) (*LineWriter, error) {
	tx, err := d.drv.Tx(ctx)
	if err != nil {
		d.logger.Error("begin transaction failed", "run_id", runID, "error", err)
		return nil, dbError("begin", err)
	}
	return &LineWriter{db: d, tx: tx, runID: runID, log: d.logger}, nil
}

// Insert stores one record; seq numbers follow insertion order from 1.
func (w *LineWriter) Insert(ctx context.Context, rec entity.OutputRecord) error {
	w.seq++
	values := []any{w.runID.String(), w.seq, rec.Page}
	for _, v := range rec.Values() {
		values = append(values, v)
	}
	query, args := w.db.builder().Insert(tableLines).
		Columns(append([]string{"run_id", "seq", "page"}, lineColumns...)...).
		Values(values...).
		Query()
	if err := w.tx.Exec(ctx, query, args, nil); err != nil {
		w.log.Error("insert service line failed", "run_id", w.runID, "seq", w.seq, "claim", rec.Claim, "error", err)
		return dbError("insert service line", err)
	}
	return nil
}

// Count returns how many lines were inserted so far.
func (w *LineWriter) Count() int { return w.seq }

func (w *LineWriter) Commit() error {
	if err := w.tx.Commit(); err != nil {
		w.log.Error("commit failed", "run_id", w.runID, "error", err)
		return dbError("commit", err)
	}
	return nil
}

func (w *LineWriter) Rollback() error {
	if err := w.tx.Rollback(); err != nil {
		return dbError("rollback", err)
	}
	return nil
}

// CountLines returns the number of stored lines of a run.
func (d *DB) CountLines(ctx context.Context, runID uuid.UUID) (int, error) {
	query, args := d.builder().Select(entsql.Count("*")).
		From(d.builder().Table(tableLines)).
		Where(entsql.EQ("run_id", runID.String())).
		Query()
	var rows entsql.Rows
	if err := d.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, dbError("count service lines", err)
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, dbError("count service lines", err)
	}
	return n, nil
}

// ListLines returns the stored records of a run in insertion order.
func (d *DB) ListLines(ctx context.Context, runID uuid.UUID) ([]entity.OutputRecord, error) {
	query, args := d.builder().Select(append([]string{"page"}, lineColumns...)...).
		From(d.builder().Table(tableLines)).
		Where(entsql.EQ("run_id", runID.String())).
		OrderBy("seq").
		Query()
	var rows entsql.Rows
	if err := d.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, dbError("list service lines", err)
	}
	defer rows.Close()

	var out []entity.OutputRecord
	for rows.Next() {
		var r entity.OutputRecord
		if err := rows.Scan(
			&r.Page,
			&r.Claim, &r.Patient, &r.HealthPlan, &r.Participant, &r.ParticipantID,
			&r.DateEntered, &r.DatePaid, &r.Provider,
			&r.ServiceDate, &r.ServiceDescription,
			&r.ProviderBilled, &r.AmountPaid, &r.YourResponsibility, &r.MessageCodes,
		); err != nil {
			return nil, dbError("scan service line", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list service lines", err)
	}
	return out, nil
}
