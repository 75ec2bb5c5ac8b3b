package services

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docportal/internal/models"
)

// DocumentInspector checks a picked file locally before it is uploaded.
type DocumentInspector struct {
	maxBytes int64
}

func NewDocumentInspector(maxBytes int64) *DocumentInspector {
	return &DocumentInspector{maxBytes: maxBytes}
}

func (s *DocumentInspector) MaxBytes() int64 {
	return s.maxBytes
}

// Inspect validates name/data as a PDF within the size limit and returns
// the file ready for upload. Pages is best effort and stays 0 when the
// document cannot be parsed.
func (s *DocumentInspector) Inspect(name string, data []byte) (*models.SelectedFile, error) {
	if name == "" && len(data) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"file": "Please select a file to upload."}}
	}

	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, NewSizeLimitError(s.maxBytes)
	}

	if !isPDF(name, data) {
		return nil, &ValidationError{Fields: map[string]string{"file": "Only PDF files are supported."}}
	}

	return &models.SelectedFile{
		Name:        filepath.Base(name),
		ContentType: "application/pdf",
		Data:        data,
		Pages:       countPages(data),
	}, nil
}

func isPDF(name string, data []byte) bool {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return false
	}
	return http.DetectContentType(data) == "application/pdf"
}

func countPages(data []byte) (pages int) {
	// The parser panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}

func formatLimit(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	if n%1024 == 0 {
		return fmt.Sprintf("%d KB", n/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}

// NewSizeLimitError reports a file larger than limit bytes.
func NewSizeLimitError(limit int64) *ValidationError {
	return &ValidationError{Fields: map[string]string{"file": fmt.Sprintf("File size exceeds %s limit", formatLimit(limit))}}
}

// ValidationError is a local input problem; nothing was sent to the backend.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for _, msg := range e.Fields {
		return msg
	}
	return "Validation error"
}
