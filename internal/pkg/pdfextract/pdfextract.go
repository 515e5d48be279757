// Package pdfextract pulls plain text and metadata out of PDF files.
// Extraction is best-effort by contract: malformed, encrypted, or empty
// documents yield the zero value, never an error.
package pdfextract

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Text extracts the plain text of every page in document order, pages joined
// with a newline, surrounding whitespace trimmed. Any parse failure returns
// "". Callers must treat "" as "no usable content", not as an error.
func Text(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil || len(b) == 0 {
		return ""
	}
	return textFromBytes(b)
}

func textFromBytes(b []byte) (out string) {
	// The pdf library panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return ""
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return strings.TrimSpace(strings.Join(pages, "\n"))
}

// Metadata carries the standard PDF document information fields. Dates stay
// in their raw PDF form (e.g. "D:20240131120000Z").
type Metadata struct {
	NumPages         int    `json:"num_pages"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
}

// Info reads the document information dictionary. Every field defaults to
// its zero value when metadata is missing or the file cannot be opened.
func Info(path string) (meta Metadata) {
	defer func() {
		if recover() != nil {
			meta = Metadata{}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return Metadata{}
	}
	defer f.Close()

	meta.NumPages = reader.NumPage()

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	meta.Title = info.Key("Title").Text()
	meta.Author = info.Key("Author").Text()
	meta.Subject = info.Key("Subject").Text()
	meta.Creator = info.Key("Creator").Text()
	meta.Producer = info.Key("Producer").Text()
	meta.CreationDate = info.Key("CreationDate").Text()
	meta.ModificationDate = info.Key("ModDate").Text()
	return meta
}
