// Package resume extracts plain text from uploaded resume files so
// the search core can match them against the job index.
// Supported formats: PDF, DOCX and plain text.
package resume

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

// ExtractFile reads the resume at path and returns its plain text.
// The format is chosen by file extension; anything that is not .pdf
// or .docx is treated as plain text.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExtractPDF(data)
	case ".docx":
		return ExtractDOCX(data)
	default:
		return string(data), nil
	}
}

// ExtractPDF pulls the plain text out of a PDF document, page by page.
// Pages that fail to decode are skipped; an unreadable file errors.
func ExtractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parsing pdf: %v", domain.ErrInvalidInput, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// paragraphEnd and xmlTag strip WordprocessingML markup from the raw
// document body, keeping paragraph boundaries as newlines.
var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]*>`)
)

// ExtractDOCX pulls the plain text out of a DOCX document.
func ExtractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: parsing docx: %v", domain.ErrInvalidInput, err)
	}
	defer doc.Close()

	raw := doc.Editable().GetContent()
	text := paragraphEnd.ReplaceAllString(raw, "\n")
	text = xmlTag.ReplaceAllString(text, "")
	return strings.TrimSpace(text), nil
}
