package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/finextract/internal/extract"
)

func sampleSummary() Summary {
	rec := extract.Record{Revenue: extract.Amount(1234.5), NetProfit: extract.Amount(200)}
	return Summary{
		RunID:      "run-1",
		StartedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC),
		Documents: []DocumentResult{
			{Document: "a.pdf", Status: StatusOK, Page: 3, Tier: "regex", Financial: true, Record: &rec},
			{Document: "b.pdf", Status: StatusSkipped},
		},
	}
}

func TestSummary_ExitCode(t *testing.T) {
	ok := Summary{Documents: []DocumentResult{{Status: StatusOK}, {Status: StatusOK}}}
	if ok.ExitCode() != 0 || ok.Degraded() {
		t.Fatalf("all ok should exit 0")
	}
	for _, s := range []Status{StatusEmpty, StatusSkipped, StatusFailed} {
		sum := Summary{Documents: []DocumentResult{{Status: StatusOK}, {Status: s}}}
		if sum.ExitCode() != 1 {
			t.Fatalf("%s should degrade the run", s)
		}
	}
	dry := Summary{Documents: []DocumentResult{{Status: StatusLocated}}}
	if dry.ExitCode() != 0 {
		t.Fatalf("located documents should not degrade a dry run")
	}
	if c := sampleSummary().Counts(); c[StatusOK] != 1 || c[StatusSkipped] != 1 {
		t.Fatalf("counts=%v", c)
	}
}

func TestWriteSummaryXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := writeSummaryXLSX(sampleSummary(), p); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenFile(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	checks := map[string]string{
		"A1": "Document",
		"E1": extract.KeyRevenue,
		"A2": "a.pdf",
		"B2": "ok",
		"E2": "1234.5",
		"F2": "",
		"G2": "200",
		"B3": "skipped",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(summarySheet, cell)
		if err != nil {
			t.Fatalf("%s: %v", cell, err)
		}
		if got != want {
			t.Fatalf("%s=%q, want %q", cell, got, want)
		}
	}
}

func TestWriteSummaryPDF(t *testing.T) {
	p := filepath.Join(t.TempDir(), "summary.pdf")
	if err := writeSummaryPDF(sampleSummary(), p); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "%PDF-") {
		t.Fatalf("not a pdf: %q", b[:min(len(b), 16)])
	}
}

func TestWriteSHA256SUMS_SortedAndSelfExcluded(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.txt", "a.txt", "SHA256SUMS"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := writeSHA256SUMS(dir); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, _ := os.ReadFile(filepath.Join(dir, "SHA256SUMS"))
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "  a.txt") || !strings.HasSuffix(lines[1], "  b.txt") {
		t.Fatalf("unexpected SHA256SUMS:\n%s", b)
	}
}
