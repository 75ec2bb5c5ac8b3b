package services

import (
	"errors"
	"strings"
	"testing"
)

var minimalPDF = []byte("%PDF-1.4\n% test document, not parseable\n%%EOF\n")

func TestDocumentInspector_Inspect(t *testing.T) {
	inspector := NewDocumentInspector(1024)

	tests := []struct {
		name     string
		filename string
		data     []byte
		wantErr  string
	}{
		{"nothing selected", "", nil, "Please select a file to upload."},
		{"wrong extension", "notes.txt", minimalPDF, "Only PDF files are supported."},
		{"pdf extension but not a pdf", "fake.pdf", []byte("hello, plain text"), "Only PDF files are supported."},
		{"too large", "big.pdf", append(append([]byte{}, minimalPDF...), make([]byte, 2048)...), "File size exceeds 1 KB limit"},
		{"valid pdf", "report.PDF", minimalPDF, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file, err := inspector.Inspect(tc.filename, tc.data)
			if tc.wantErr != "" {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Error() != tc.wantErr {
					t.Fatalf("expected %q, got %q", tc.wantErr, ve.Error())
				}
				if file != nil {
					t.Fatal("expected no file on validation failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if file.ContentType != "application/pdf" {
				t.Errorf("expected application/pdf, got %q", file.ContentType)
			}
			if file.Size() != len(tc.data) {
				t.Errorf("expected %d bytes, got %d", len(tc.data), file.Size())
			}
			if file.Pages != 0 {
				t.Errorf("expected unparseable document to report 0 pages, got %d", file.Pages)
			}
		})
	}
}

func TestDocumentInspector_StripsDirectories(t *testing.T) {
	inspector := NewDocumentInspector(0)

	file, err := inspector.Inspect("C/fakepath/../reports/q3.pdf", minimalPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(file.Name, "/") {
		t.Fatalf("expected bare filename, got %q", file.Name)
	}
	if file.Name != "q3.pdf" {
		t.Fatalf("expected q3.pdf, got %q", file.Name)
	}
}

func TestFormatLimit(t *testing.T) {
	tests := map[int64]string{
		10 * 1024 * 1024: "10 MB",
		512 * 1024:       "512 KB",
		1000:             "1000 bytes",
	}
	for in, want := range tests {
		if got := formatLimit(in); got != want {
			t.Errorf("formatLimit(%d) = %q, want %q", in, got, want)
		}
	}
}
