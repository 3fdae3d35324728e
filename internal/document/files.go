package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ValidatePath checks that path names an existing regular .pdf file.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("pdf path is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("pdf not found: %s", path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	if !IsPDF(path) {
		return fmt.Errorf("not a pdf file: %s", path)
	}
	return nil
}

// IsPDF reports whether name has a .pdf extension, ignoring case.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Inputs resolves the configured input to the PDFs to process. A path naming
// a single file must be a PDF; a directory is listed with ListPDFs.
func Inputs(path string) ([]string, error) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		if err := ValidatePath(path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return ListPDFs(path)
}

// ListPDFs returns the PDF files directly inside dir, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsPDF(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
