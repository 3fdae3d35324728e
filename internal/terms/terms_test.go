package terms

import (
	"reflect"
	"testing"
)

func TestRelevant_ThreeTermsIsFinancial(t *testing.T) {
	f := New(nil, 0)
	text := "Quarterly revenue grew; EBITDA margin held. See the BALANCE SHEET on page 4."
	if !f.Relevant(text) {
		t.Fatalf("expected relevant, found %v", f.Found(text))
	}
}

func TestRelevant_TwoTermsIsNot(t *testing.T) {
	f := New(nil, 0)
	text := "EBITDA and the balance sheet were discussed."
	if f.Relevant(text) {
		t.Fatalf("expected not relevant, found %v", f.Found(text))
	}
}

func TestRelevant_EmptyText(t *testing.T) {
	if New(nil, 0).Relevant("") {
		t.Fatal("empty text must not be relevant")
	}
}

func TestFound_DistinctAndOrdered(t *testing.T) {
	f := New(nil, 0)
	got := f.Found("Net Profit ... net profit ... Revenue from Operations ... interest")
	// "Revenue" is a substring of "Revenue from Operations" and counts on its own.
	want := []string{"Revenue", "Revenue from operations", "Net Profit", "Interest"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNew_CustomVocabularyAndThreshold(t *testing.T) {
	f := New([]string{"Umsatz", "Gewinn"}, 2)
	if f.Min() != 2 {
		t.Fatalf("Min=%d", f.Min())
	}
	if !f.Relevant("UMSATZ und Gewinn") {
		t.Fatal("expected custom vocabulary to match")
	}
	if f.Relevant("Revenue, EBITDA, Sales") {
		t.Fatal("default vocabulary must not leak into a custom filter")
	}
}

func TestNew_DuplicateTermsAfterFolding(t *testing.T) {
	f := New([]string{"Sales", "SALES", "Tax"}, 2)
	got := f.Found("sales")
	if !reflect.DeepEqual(got, []string{"Sales", "SALES"}) {
		t.Fatalf("got %v", got)
	}
}
