package document

import (
	"context"
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Text engines selectable through configuration.
const (
	EngineLedongthuc = "ledongthuc"
	EngineMuPDF      = "mupdf"
)

// Document is an open PDF whose text layer can be read page by page.
// Callers must Close it.
type Document interface {
	PageSource
	Close() error
}

// Open opens path with the named text engine. An empty engine selects the
// pure-Go reader.
func Open(path, engine string) (Document, error) {
	switch engine {
	case "", EngineLedongthuc:
		return OpenPDF(path)
	case EngineMuPDF:
		return OpenFitz(path)
	default:
		return nil, fmt.Errorf("unknown pdf text engine %q", engine)
	}
}

// PDFDocument reads page text with github.com/ledongthuc/pdf.
type PDFDocument struct {
	f *os.File
	r *pdf.Reader
}

// OpenPDF opens a PDF for text extraction.
func OpenPDF(path string) (*PDFDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDFDocument{f: f, r: r}, nil
}

func (d *PDFDocument) NumPage() int { return d.r.NumPage() }

// PageText returns the plain text of a page. Malformed content streams can
// make the reader panic; that is reported as an error for the page.
func (d *PDFDocument) PageText(_ context.Context, page int) (text string, err error) {
	if page < 1 || page > d.r.NumPage() {
		return "", fmt.Errorf("page %d out of range", page)
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read page %d: %v", page, r)
		}
	}()
	p := d.r.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (d *PDFDocument) Close() error {
	if d.f == nil {
		return nil
	}
	return d.f.Close()
}

// FitzDocument reads page text through MuPDF.
type FitzDocument struct {
	doc *fitz.Document
}

// OpenFitz opens a PDF with go-fitz.
func OpenFitz(path string) (*FitzDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &FitzDocument{doc: doc}, nil
}

func (d *FitzDocument) NumPage() int { return d.doc.NumPage() }

func (d *FitzDocument) PageText(_ context.Context, page int) (string, error) {
	if page < 1 || page > d.doc.NumPage() {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return d.doc.Text(page - 1)
}

func (d *FitzDocument) Close() error { return d.doc.Close() }
