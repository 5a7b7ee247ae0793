// Package parser extracts text records from uploaded contract files.
// One record per PDF page, one per whole TXT or DOCX file.
package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"contract-rag/internal/models"
)

// Parser extracts the logical units of one source file.
type Parser interface {
	Parse(path string) ([]models.Record, error)
}

// Registry dispatches files to the parser registered for their extension.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry with the supported upload formats:
// .pdf, .docx and .txt.
func NewRegistry() *Registry {
	r := &Registry{parsers: map[string]Parser{}}
	r.Register(".txt", TextParser{})
	r.Register(".pdf", PDFParser{})
	r.Register(".docx", DocxParser{})
	return r
}

// Register binds an extension (with leading dot) to a parser. Registering a
// nil parser marks the format as known but not extractable in this build;
// parsing it reports a MissingDependencyError.
func (r *Registry) Register(ext string, p Parser) {
	r.parsers[strings.ToLower(ext)] = p
}

// Supported reports whether the extension has a registered format.
func (r *Registry) Supported(ext string) bool {
	_, ok := r.parsers[strings.ToLower(ext)]
	return ok
}

// Parse extracts the records of one file, dispatching on its extension.
func (r *Registry) Parse(path string) ([]models.Record, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.parsers[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Ext: ext}
	}
	if p == nil {
		return nil, &MissingDependencyError{Format: ext}
	}
	return p.Parse(path)
}

// TextParser reads a whole plain-text file as a single record without a page.
type TextParser struct{}

func (TextParser) Parse(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []models.Record{{
		Text:     string(data),
		Metadata: models.Metadata{Source: filepath.Base(path)},
	}}, nil
}

// PDFParser emits one record per page, pages numbered from 1. A page whose
// text extraction fails yields an empty record rather than failing the file;
// scanned pages without a text layer are common in contracts.
type PDFParser struct{}

func (PDFParser) Parse(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("reading pdf %s: %w", filepath.Base(path), err)
	}

	source := filepath.Base(path)
	var records []models.Record
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		records = append(records, models.Record{
			Text:     text,
			Metadata: models.Metadata{Source: source, Page: i},
		})
	}
	return records, nil
}

// DocxParser reads the whole document as one record. The first non-empty
// paragraph doubles as the title, mirroring how contract headers are laid out.
type DocxParser struct{}

func (DocxParser) Parse(path string) ([]models.Record, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading docx %s: %w", filepath.Base(path), err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	paragraphs := strings.Split(content, "\n")

	var buf bytes.Buffer
	title := ""
	for _, p := range paragraphs {
		if title == "" {
			title = strings.TrimSpace(p)
		}
		buf.WriteString(p)
		buf.WriteString("\n")
	}

	meta := models.Metadata{Source: filepath.Base(path)}
	if title != "" {
		meta.Title = title
	}
	return []models.Record{{Text: buf.String(), Metadata: meta}}, nil
}
