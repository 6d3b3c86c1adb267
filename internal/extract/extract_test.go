package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ledongthuc/pdf"

	"github.com/christopher-nash/DMBA-claims-history-parser/constants"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
	"github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"
)

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(
		[]entity.Run{{X: 1, Y: 2, Text: "a"}},
		nil,
	)
	if got := src.NumPages(); got != 2 {
		t.Fatalf("NumPages = %d, want 2", got)
	}
	runs, err := src.Page(context.Background(), 1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}
	if diff := cmp.Diff([]entity.Run{{X: 1, Y: 2, Text: "a"}}, runs); diff != "" {
		t.Errorf("Page(1) mismatch (-want +got):\n%s", diff)
	}
	if _, err := src.Page(context.Background(), 3); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("Page(3) err = %v, want ErrInvalidInput", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Page(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Page on canceled ctx err = %v", err)
	}
}

func glyphs(x, y, size float64, s string) []pdf.Text {
	out := make([]pdf.Text, 0, len(s))
	for _, r := range s {
		out = append(out, pdf.Text{X: x, Y: y, W: size * 0.5, FontSize: size, S: string(r)})
		x += size * 0.5
	}
	return out
}

func TestCoalesceGlyphs(t *testing.T) {
	var in []pdf.Text
	in = append(in, glyphs(10, 700, 10, "Claim")...)
	in = append(in, glyphs(45, 700, 10, "Number")...) // wide gap
	in = append(in, glyphs(10, 680, 10, "Paid ")...)  // trailing space glyph
	in = append(in, glyphs(35, 680, 10, "Y")...)

	want := []entity.Run{
		{X: 10, Y: 700, Text: "Claim"},
		{X: 45, Y: 700, Text: "Number"},
		{X: 10, Y: 680, Text: "Paid"},
		{X: 35, Y: 680, Text: "Y"},
	}
	if diff := cmp.Diff(want, coalesceGlyphs(in, DefaultWordGap)); diff != "" {
		t.Errorf("coalesceGlyphs mismatch (-want +got):\n%s", diff)
	}
}

func TestCoalesceGlyphsEmpty(t *testing.T) {
	if got := coalesceGlyphs(nil, DefaultWordGap); len(got) != 0 {
		t.Errorf("coalesceGlyphs(nil) = %v", got)
	}
}

const bboxDoc = `<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
<title></title>
<meta name="Producer" content="pdftotext"/>
</head>
<body>
<doc>
  <page width="612.000000" height="792.000000">
    <word xMin="36.000000" yMin="40.000000" xMax="60.000000" yMax="52.000000">Claim</word>
    <word xMin="64.000000" yMin="40.000000" xMax="90.000000" yMax="52.000000">A&amp;B</word>
  </page>
  <page width="612.000000" height="792.000000">
  </page>
</doc>
</body>
</html>`

func TestParseBBox(t *testing.T) {
	pages, err := ParseBBox(strings.NewReader(bboxDoc))
	if err != nil {
		t.Fatalf("ParseBBox: %v", err)
	}
	want := [][]entity.Run{
		{{X: 36, Y: 740, Text: "Claim"}, {X: 64, Y: 740, Text: "A&B"}},
		nil,
	}
	if diff := cmp.Diff(want, pages); diff != "" {
		t.Errorf("ParseBBox mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBBoxMissingAttr(t *testing.T) {
	_, err := ParseBBox(strings.NewReader(`<doc><page width="1"><word>x</word></page></doc>`))
	if err == nil {
		t.Fatal("expected error for page without height")
	}
}

type stubRunner struct {
	out  string
	err  error
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.args = append([]string{name}, args...)
	return []byte(s.out), []byte("boom"), s.err
}

func TestOpenBBox(t *testing.T) {
	r := &stubRunner{out: bboxDoc}
	src, err := OpenBBox(context.Background(), "eob.pdf", "", r, nil)
	if err != nil {
		t.Fatalf("OpenBBox: %v", err)
	}
	defer src.Close()

	if diff := cmp.Diff([]string{"pdftotext", "-bbox", "-enc", "UTF-8", "eob.pdf", "-"}, r.args); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}
	if src.NumPages() != 2 {
		t.Errorf("NumPages = %d, want 2", src.NumPages())
	}
}

func TestOpenBBoxRunnerFailure(t *testing.T) {
	r := &stubRunner{err: errors.New("exit status 1")}
	_, err := OpenBBox(context.Background(), "eob.pdf", "pdftotext", r, nil)
	if !errors.Is(err, common.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open(context.Background(), "x.pdf", Config{Engine: constants.Engine("ocr")}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), t.TempDir()+"/missing.pdf", Config{}, nil)
	if !errors.Is(err, common.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}
