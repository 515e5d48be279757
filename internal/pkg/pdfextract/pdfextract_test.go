package pdfextract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTextNeverFails(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"not a pdf", "just some plain text"},
		{"truncated header", "%PDF-1.4"},
		{"garbage after header", "%PDF-1.4\n\x00\x01\x02 broken body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(strings.NewReader(tc.input)); got != "" {
				t.Fatalf("Text(%q) = %q, want empty", tc.input, got)
			}
		})
	}
}

func TestTextReadError(t *testing.T) {
	if got := Text(failingReader{}); got != "" {
		t.Fatalf("read failure should yield empty text, got %q", got)
	}
}

func TestInfoMissingFile(t *testing.T) {
	meta := Info(filepath.Join(t.TempDir(), "does-not-exist.pdf"))
	if meta != (Metadata{}) {
		t.Fatalf("missing file should yield zero metadata, got %+v", meta)
	}
}

func TestInfoMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\nnot really a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	meta := Info(path)
	if meta != (Metadata{}) {
		t.Fatalf("malformed file should yield zero metadata, got %+v", meta)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}
