package contract

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Contract holds an uploaded contract with its extracted text and
// derived metadata.
type Contract struct {
	Filename string
	Size     int64
	Hash     string // "sha256:<hex>", computed on the uploaded bytes before redaction
	Pages    int
	Text     string // extracted text, pages separated by \f
}

// ExtractionError reports an unreadable or corrupt PDF upload.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// pdfMagic is the required file header for a PDF.
const pdfMagic = "%PDF-"

// Extract validates data as a PDF and extracts its plain text.
// An image-only PDF yields empty or partial text, which is not an error;
// corrupt or non-PDF bytes fail with *ExtractionError.
func Extract(filename string, data []byte) (*Contract, error) {
	if len(data) < len(pdfMagic) || string(data[:len(pdfMagic)]) != pdfMagic {
		return nil, &ExtractionError{Filename: filename, Err: fmt.Errorf("not a PDF file")}
	}

	pages, err := validatePDF(data)
	if err != nil {
		return nil, &ExtractionError{Filename: filename, Err: err}
	}

	text, err := extractText(data)
	if err != nil {
		return nil, &ExtractionError{Filename: filename, Err: err}
	}

	sum := sha256.Sum256(data)

	return &Contract{
		Filename: filename,
		Size:     int64(len(data)),
		Hash:     fmt.Sprintf("sha256:%x", sum),
		Pages:    pages,
		Text:     text,
	}, nil
}

// validatePDF runs a relaxed structural validation and returns the page
// count. pdfcpu's API is file-based, so the upload is staged in a temp
// directory for the duration of the call.
func validatePDF(data []byte) (int, error) {
	tempDir, err := os.MkdirTemp("", "clausecritic-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "upload.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return 0, fmt.Errorf("staging upload: %w", err)
	}

	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return pages, nil
}

// extractText pulls the plain text of every page. Pages whose text cannot
// be decoded (image-only, unsupported encodings) are skipped. The pdf
// library panics on some malformed inputs, so the pass runs under a
// recover guard.
func extractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		parts = append(parts, strings.TrimSpace(pageText))
	}
	return strings.TrimSpace(strings.Join(parts, "\f")), nil
}
