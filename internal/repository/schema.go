package repository

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableRuns  = "extract_runs"
	tableLines = "service_lines"
)

// Run status values stored in extract_runs.status.
const (
	RunRunning = "RUNNING"
	RunDone    = "DONE"
	RunFailed  = "FAILED"
)

// lineColumns are the service_lines columns after the key, in output order.
var lineColumns = []string{
	"claim",
	"patient",
	"health_plan",
	"participant",
	"participant_id",
	"date_entered",
	"date_paid",
	"provider",
	"service_date",
	"services_provided",
	"provider_billed",
	"dmba_paid",
	"your_responsibility",
	"message_codes",
}

// Migrate creates the tables if they do not exist. Amounts are stored as text
// so the fixed-point form survives unchanged.
func (d *DB) Migrate(ctx context.Context) error {
	b := d.builder()
	text := func(name string) *entsql.ColumnBuilder { return b.Column(name).Type("TEXT").Attr("NOT NULL DEFAULT ''") }
	integer := func(name string) *entsql.ColumnBuilder { return b.Column(name).Type("INTEGER").Attr("NOT NULL DEFAULT 0") }

	runs := b.CreateTable(tableRuns).IfNotExists().
		Columns(
			b.Column("run_id").Type("TEXT").Attr("NOT NULL"),
			text("source"),
			text("source_sha256"),
			text("format"),
			text("status"),
			text("error"),
			text("started_at"),
			text("finished_at"),
			integer("pages"),
			integer("legend_pages"),
			integer("claims"),
			integer("records"),
			integer("dropped_rows"),
			integer("dropped_pending"),
		).
		PrimaryKey("run_id")

	lines := b.CreateTable(tableLines).IfNotExists().
		Columns(
			b.Column("run_id").Type("TEXT").Attr("NOT NULL"),
			integer("seq"),
			integer("page"),
		).
		PrimaryKey("run_id", "seq")
	for _, c := range lineColumns {
		lines.Column(text(c))
	}

	for _, t := range []*entsql.TableBuilder{runs, lines} {
		query, args := t.Query()
		if err := d.drv.Exec(ctx, query, args, nil); err != nil {
			d.logger.Error("migration failed", "query", query, "error", err)
			return dbError("migrate", err)
		}
	}
	d.logger.Debug("schema ready", "dialect", d.Dialect())
	return nil
}
