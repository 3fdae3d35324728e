package terms

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
)

// DefaultMinTerms is the number of distinct terms that marks text as financial.
const DefaultMinTerms = 3

// DefaultVocabulary lists the phrases that typically appear on a results page.
var DefaultVocabulary = []string{
	"Consolidated Financial Results", "Standalone Financial Results",
	"Revenue", "Revenue from operations", "Sales", "Net Profit", "Operating Profit", "EBITDA",
	"Total Income", "Expenses", "Earnings Per Share", "Profit Before Tax", "Profit After Tax",
	"Balance Sheet", "Quarterly Results", "Unaudited Financial Results",
	"Depreciation", "Amortization", "Interest", "Tax Expense",
}

// Filter counts distinct vocabulary terms in a text, ignoring case.
type Filter struct {
	vocab []string
	min   int

	mu      sync.Mutex // Matcher.Match mutates per-call state
	matcher *ahocorasick.Matcher
	// index maps matcher pattern ids back to vocabulary positions; terms that
	// fold to the same string share one pattern.
	index [][]int
}

// New builds a Filter. An empty vocabulary selects DefaultVocabulary and a
// non-positive min selects DefaultMinTerms.
func New(vocab []string, min int) *Filter {
	if len(vocab) == 0 {
		vocab = DefaultVocabulary
	}
	if min <= 0 {
		min = DefaultMinTerms
	}
	f := &Filter{vocab: append([]string(nil), vocab...), min: min}

	fold := cases.Fold()
	seen := map[string]int{}
	var patterns [][]byte
	for i, term := range f.vocab {
		key := fold.String(strings.TrimSpace(term))
		if key == "" {
			continue
		}
		if id, ok := seen[key]; ok {
			f.index[id] = append(f.index[id], i)
			continue
		}
		seen[key] = len(patterns)
		patterns = append(patterns, []byte(key))
		f.index = append(f.index, []int{i})
	}
	if len(patterns) > 0 {
		f.matcher = ahocorasick.NewMatcher(patterns)
	}
	return f
}

// Min returns the threshold used by Relevant.
func (f *Filter) Min() int { return f.min }

// Found returns the distinct vocabulary terms present in text, in
// vocabulary order.
func (f *Filter) Found(text string) []string {
	if f.matcher == nil || text == "" {
		return nil
	}
	folded := []byte(cases.Fold().String(text))
	f.mu.Lock()
	hits := f.matcher.Match(folded)
	f.mu.Unlock()
	if len(hits) == 0 {
		return nil
	}
	present := make([]bool, len(f.vocab))
	for _, id := range hits {
		if id < 0 || id >= len(f.index) {
			continue
		}
		for _, i := range f.index[id] {
			present[i] = true
		}
	}
	out := make([]string, 0, len(hits))
	for i, ok := range present {
		if ok {
			out = append(out, f.vocab[i])
		}
	}
	return out
}

// Relevant reports whether text contains at least Min distinct terms.
func (f *Filter) Relevant(text string) bool {
	return len(f.Found(text)) >= f.min
}
