package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspect(t *testing.T) {
	path := write(t, "eob.pdf", "%PDF-1.4\n")
	doc, err := Inspect(path, nil)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if doc.Size != 9 || doc.Path != path || !filepath.IsAbs(doc.AbsPath) {
		t.Fatalf("doc = %+v", doc)
	}
	if len(doc.SHA256) != 64 {
		t.Fatalf("SHA256 = %q", doc.SHA256)
	}

	again, _ := Inspect(path, nil)
	if again.SHA256 != doc.SHA256 {
		t.Fatal("hash is not stable")
	}
}

func TestInspectRejects(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{"not pdf", func(t *testing.T) string { return write(t, "eob.pdf", "hello world") }, ErrNotPDF},
		{"empty", func(t *testing.T) string { return write(t, "eob.pdf", "") }, ErrNotPDF},
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.pdf") }, os.ErrNotExist},
		{"directory", func(t *testing.T) string { return t.TempDir() }, common.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.path(t), nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, common.ErrIO) {
				t.Fatalf("err = %v is not an i/o error", err)
			}
		})
	}
}
