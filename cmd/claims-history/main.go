package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/export"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/extract"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/ingest"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/legend"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/pipeline"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/repository"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		if errors.Is(err, common.ErrUsage) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims-history <input.pdf> <output>",
		Short: "Extract DMBA claim service lines from an EOB history PDF",
		Long: `claims-history reads a print-friendly DMBA Explanation of Benefits history
and writes one row per service line, stamped with the claim it belongs to.

Rows that wrap over several lines or continue on the next page are joined,
and legend pages are skipped. The output format follows the extension of
<output>: .csv (default), .xlsx, .json, or .db/.sqlite.

Example:
  claims-history eob.pdf claims.csv
  claims-history --engine pdftotext eob.pdf claims.xlsx`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return common.UsageErrorf("expected <input.pdf> and <output>, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := common.LoadConfig()
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := common.NewLogger(stderr, cfg.Log)
			runID := uuid.New()
			ctx := common.WithRunID(cmd.Context(), runID.String())
			ctx = common.WithLogger(ctx, logger)

			input, output := args[0], args[1]
			n, err := run(ctx, cfg, runID, input, output)
			if err != nil {
				logger.Error("claims.extract.failed", "run_id", runID, "code", common.Classify(err), "error", err)
				return err
			}
			fmt.Fprintf(stdout, "Extracted %d service line(s) to: %s\n", n, output)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return common.UsageErrorf("%v", err)
	})

	cmd.Flags().StringP("format", "f", "", "Output format: csv, xlsx, json, sqlite (default: from the output extension)")
	cmd.Flags().String("engine", "", "Text extraction engine: pdf or pdftotext")
	cmd.Flags().Float64("tolerance", 0, "Vertical tolerance for joining text onto one line")
	cmd.Flags().Int("prefetch", 4, "Pages read ahead of the parser")
	cmd.Flags().Duration("page-timeout", 0, "Limit on reading a single page (0: no limit)")
	cmd.Flags().String("db", "", "Also store the records in this database (postgres:// URL or SQLite path)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().String("log-format", "", "Log format: text or json")
	return cmd
}

// applyFlags overrides environment configuration with flags that were set.
func applyFlags(cmd *cobra.Command, cfg *common.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		f, ok := constants.ParseFormat(v)
		if !ok {
			return common.UsageErrorf("unknown format %q", v)
		}
		cfg.Output.Format = f
	}
	if flags.Changed("engine") {
		v, _ := flags.GetString("engine")
		cfg.Source.Engine = constants.Engine(v)
	}
	if flags.Changed("tolerance") {
		cfg.Layout.LineTolerance, _ = flags.GetFloat64("tolerance")
	}
	if flags.Changed("prefetch") {
		cfg.Source.Prefetch, _ = flags.GetInt("prefetch")
	}
	if flags.Changed("page-timeout") {
		cfg.Source.PageTimeout, _ = flags.GetDuration("page-timeout")
	}
	if flags.Changed("db") {
		cfg.Database.DSN, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	return nil
}

// run extracts input into output and returns the number of records written.
func run(ctx context.Context, cfg *common.Config, runID uuid.UUID, input, output string) (int, error) {
	logger := common.LoggerFromContext(ctx)

	doc, err := ingest.Inspect(input, logger)
	if err != nil {
		return 0, err
	}
	detector, err := legend.NewDetector(cfg.Legend.Marker, cfg.Legend.MinLines)
	if err != nil {
		return 0, common.NewAppError(common.CodeConfig, "invalid CLAIMS_LEGEND_MARKER", err)
	}

	src, err := extract.Open(ctx, doc.AbsPath, extract.Config{
		Engine:    cfg.Source.Engine,
		Pdftotext: cfg.Source.Pdftotext,
		WordGap:   cfg.Layout.WordGap,
	}, logger)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	format := export.FormatFor(output, cfg.Output.Format)
	opts := export.Options{RunID: runID, Source: doc.AbsPath, SourceSHA256: doc.SHA256, Logger: logger}
	w, err := export.Open(ctx, format, output, opts)
	if err != nil {
		return 0, err
	}
	writers := []export.Writer{w}

	if cfg.Database.DSN != "" {
		db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Database), logger)
		if err != nil {
			w.Abort(ctx, err)
			return 0, err
		}
		defer db.Close()
		if err := db.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
			w.Abort(ctx, err)
			return 0, err
		}
		sw, err := export.NewSQLWriter(ctx, db, format, opts)
		if err != nil {
			w.Abort(ctx, err)
			return 0, err
		}
		writers = append(writers, sw)
	}
	sink := export.Multi(writers...)

	proc := pipeline.NewProcessor(logger, pipeline.Options{
		Tolerance:   cfg.Layout.LineTolerance,
		Legend:      detector,
		Prefetch:    cfg.Source.Prefetch,
		PageTimeout: cfg.Source.PageTimeout,
	})
	logger.Info("claims.extract.start", "run_id", runID, "input", input, "output", output, "format", format, "engine", cfg.Source.Engine, "pages", src.NumPages())

	sum, err := proc.Run(ctx, src, sink)
	if err != nil {
		sink.Abort(ctx, err)
		return 0, err
	}
	if err := sink.Commit(ctx, sum); err != nil {
		return 0, err
	}
	return sum.Records, nil
}
