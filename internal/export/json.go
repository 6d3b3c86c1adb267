package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

// RecordSchema returns the JSON Schema of one exported record as a generic map.
func RecordSchema() map[string]any {
	str := map[string]any{"type": "string"}
	amount := map[string]any{"type": "string", "pattern": `^-?\d+\.\d{2}$`}
	date := map[string]any{"type": "string", "pattern": `^\d{2}/\d{2}/\d{4}$`}
	optDate := map[string]any{"type": "string", "pattern": `^(\d{2}/\d{2}/\d{4})?$`}

	props := map[string]any{
		"claim":               map[string]any{"type": "string", "pattern": `^T\d{7,}$`},
		"patient":             str,
		"health_plan":         str,
		"participant":         str,
		"participant_id":      map[string]any{"type": "string", "pattern": `^\d*$`},
		"date_entered":        optDate,
		"date_paid":           optDate,
		"provider":            str,
		"service_date":        date,
		"services_provided":   map[string]any{"type": "string", "minLength": 1},
		"provider_billed":     amount,
		"dmba_paid":           amount,
		"your_responsibility": amount,
		"message_codes":       map[string]any{"type": "string", "pattern": `^[A-Z0-9]+( [A-Z0-9]+)*$`, "maxLength": 40},
		"page":                map[string]any{"type": "integer", "minimum": 1},
	}
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func documentSchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": RecordSchema(),
	}
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("records.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("records.json")
}

// JSONWriter collects records and writes them as one JSON array after the
// document validates against the record schema.
type JSONWriter struct {
	path   string
	schema *jsonschema.Schema
	recs   []entity.OutputRecord
	start  time.Time
	logger *slog.Logger
}

func NewJSONWriter(path string, logger *slog.Logger) (*JSONWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := compileSchema(documentSchema())
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &JSONWriter{path: path, schema: schema, recs: []entity.OutputRecord{}, start: time.Now(), logger: logger}, nil
}

func (j *JSONWriter) Write(_ context.Context, rec entity.OutputRecord) error {
	j.recs = append(j.recs, rec)
	return nil
}

func (j *JSONWriter) Commit(_ context.Context, sum entity.RunSummary) error {
	data, err := json.MarshalIndent(j.recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := validateJSON(j.schema, data); err != nil {
		j.logger.Error("export.json.invalid", "path", j.path, "error", err)
		return common.InvariantErrorf("json output does not match the record schema: %v", err)
	}

	out, err := stage(j.path)
	if err != nil {
		return err
	}
	if _, err := out.f.Write(append(data, '\n')); err != nil {
		out.discard()
		return common.IOError("write json", err)
	}
	if err := out.commit(); err != nil {
		j.logger.Error("export.json.failed", "path", j.path, "error", err)
		return err
	}
	j.logger.Info("export.json.ok",
		"path", j.path,
		"rows", len(j.recs),
		"pages", sum.Pages,
		"elapsed_ms", time.Since(j.start).Milliseconds(),
	)
	return nil
}

func (j *JSONWriter) Abort(_ context.Context, cause error) {
	j.recs = nil
	j.logger.Debug("export.json.aborted", "path", j.path, "cause", cause)
}

func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return schema.Validate(v)
}
