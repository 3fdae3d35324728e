package document

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListPDFs_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt", "c.pdf.bak"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := ListPDFs(dir)
	if err != nil {
		t.Fatalf("ListPDFs: %v", err)
	}
	want := []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestListPDFs_MissingDir(t *testing.T) {
	if _, err := ListPDFs(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "q1.pdf")
	txt := filepath.Join(dir, "q1.txt")
	_ = os.WriteFile(good, []byte("%PDF-1.4"), 0o644)
	_ = os.WriteFile(txt, []byte("x"), 0o644)

	if err := ValidatePath(good); err != nil {
		t.Fatalf("valid path rejected: %v", err)
	}
	for _, p := range []string{"", txt, dir, filepath.Join(dir, "missing.pdf")} {
		if err := ValidatePath(p); err == nil {
			t.Fatalf("expected error for %q", p)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/in/Q3 FY24 Results.pdf"); got != "Q3 FY24 Results" {
		t.Fatalf("Stem=%q", got)
	}
}

func TestInputs(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "Q1.PDF")
	txt := filepath.Join(dir, "notes.txt")
	_ = os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644)
	_ = os.WriteFile(txt, []byte("x"), 0o644)

	got, err := Inputs(pdf)
	if err != nil || !reflect.DeepEqual(got, []string{pdf}) {
		t.Fatalf("single file: got %v err=%v", got, err)
	}
	got, err = Inputs(dir)
	if err != nil || !reflect.DeepEqual(got, []string{pdf}) {
		t.Fatalf("directory: got %v err=%v", got, err)
	}
	if _, err := Inputs(txt); err == nil {
		t.Fatal("expected error for a non-pdf file")
	}
	if _, err := Inputs(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for a missing path")
	}
}
