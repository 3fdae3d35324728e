package document

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

func writeFixturePDF(t *testing.T, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		pdf.AddPage()
		pdf.Cell(0, 10, text)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestOpenPDF_LocatesMarkerPage(t *testing.T) {
	path := writeFixturePDF(t, "Board meeting notice", "Auditor report", "Net Profit for the quarter")
	doc, err := Open(path, EngineLedongthuc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer doc.Close()

	if n := doc.NumPage(); n != 3 {
		t.Fatalf("NumPage=%d, want 3", n)
	}
	page, err := NewLocator().Locate(context.Background(), doc)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if page != 3 {
		t.Fatalf("page=%d, want 3", page)
	}
}

func TestOpenPDF_PageOutOfRange(t *testing.T) {
	doc, err := OpenPDF(writeFixturePDF(t, "only page"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer doc.Close()
	if _, err := doc.PageText(context.Background(), 2); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestOpen_UnknownEngine(t *testing.T) {
	if _, err := Open("x.pdf", "pdfium"); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}
