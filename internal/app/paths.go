package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/finextract/internal/document"
)

const (
	recordFileName   = "financial_data.json"
	manifestFileName = "manifest.json"
	summaryJSONName  = "summary.json"
	summaryXLSXName  = "summary.xlsx"
	summaryPDFName   = "summary.pdf"
)

// documentOutputDirs assigns every PDF its own directory under outRoot,
// normally out/<stem>/. Names are compared case-insensitively so q1.pdf and
// q1.PDF cannot share a directory on any filesystem, and a stem never takes
// the name of a run-level summary file. A clashing stem gets its extension
// appended (q1_pdf), then a counter (q1_pdf_2). files must be sorted so the
// assignment is stable across runs.
func documentOutputDirs(outRoot string, files []string) map[string]string {
	taken := map[string]bool{
		summaryJSONName: true,
		summaryXLSXName: true,
		summaryPDFName:  true,
	}
	dirs := make(map[string]string, len(files))
	for _, f := range files {
		name := document.Stem(f)
		if strings.TrimSpace(name) == "" {
			name = "document"
		}
		if taken[strings.ToLower(name)] {
			name += "_" + strings.TrimPrefix(filepath.Ext(f), ".")
		}
		base := name
		for i := 2; taken[strings.ToLower(name)]; i++ {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		taken[strings.ToLower(name)] = true
		dirs[f] = filepath.Join(outRoot, name)
	}
	return dirs
}

// textFileName names the persisted OCR text for a page.
func textFileName(page int) string {
	return fmt.Sprintf("page_%d.txt", page)
}
