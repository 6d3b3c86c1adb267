// Package ingest checks an input document and fingerprints it before
// extraction.
package ingest

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/christopher-nash/DMBA-claims-history-parser/internal/common"
)

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// ErrNotPDF is returned for inputs that do not carry the PDF signature.
var ErrNotPDF = errors.New("not a PDF file")

// Document describes an input file.
type Document struct {
	Path    string // as given
	AbsPath string
	Size    int64
	SHA256  string // hex
	ModTime time.Time
}

// Inspect opens path, checks the PDF signature and hashes the content.
func Inspect(path string, logger *slog.Logger) (Document, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var out Document

	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Error("abs path error", "path", path, "error", err)
		return out, common.IOError("resolve input "+path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		logger.Error("open error", "path", abs, "error", err)
		return out, common.IOError("open input "+path, err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			logger.Warn("close file error", "path", abs, "error", err)
		}
	}(f)

	st, err := f.Stat()
	if err != nil {
		return out, common.IOError("stat input "+path, err)
	}
	if st.IsDir() {
		return out, common.IOError("open input "+path, errors.New("is a directory"))
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(len(pdfMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return out, common.IOError("read input "+path, err)
	}
	if !bytes.Equal(head, pdfMagic) {
		logger.Error("input is not a pdf", "path", abs, "head", string(head))
		return out, common.IOError("read input "+path, ErrNotPDF)
	}

	h := sha256.New()
	if _, err := io.Copy(h, br); err != nil {
		logger.Error("hash error", "path", abs, "error", err)
		return out, common.IOError("read input "+path, err)
	}

	out = Document{
		Path:    path,
		AbsPath: abs,
		Size:    st.Size(),
		SHA256:  hex.EncodeToString(h.Sum(nil)),
		ModTime: st.ModTime().UTC(),
	}
	logger.Debug("ingest.inspect.ok", "path", abs, "size", out.Size, "sha256", out.SHA256)
	return out, nil
}
