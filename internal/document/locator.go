package document

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when no page of a document carries a financial marker.
var ErrNotFound = errors.New("no financial table page found")

// DefaultMarkers are the strong signals that a page holds a financial-results
// table. Matching is case-sensitive.
var DefaultMarkers = []string{"Revenue from Operations", "Profit Before Tax", "Net Profit"}

// PageSource exposes the text layer of a document page by page.
// Page numbers are 1-based.
type PageSource interface {
	NumPage() int
	PageText(ctx context.Context, page int) (string, error)
}

// Locator finds the first page whose text contains any of Markers.
type Locator struct {
	Markers []string
}

// NewLocator returns a Locator using DefaultMarkers.
func NewLocator() *Locator {
	return &Locator{Markers: DefaultMarkers}
}

// Locate scans pages in order and returns the 1-based index of the first
// match. Pages without readable text never match. When nothing matches it
// returns 0 and ErrNotFound.
func (l *Locator) Locate(ctx context.Context, src PageSource) (int, error) {
	markers := l.Markers
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	n := src.NumPage()
	for page := 1; page <= n; page++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		text, err := src.PageText(ctx, page)
		if err != nil {
			log.Debug().Err(err).Int("page", page).Msg("page text unavailable")
			continue
		}
		if text == "" {
			continue
		}
		if containsAny(text, markers) {
			return page, nil
		}
	}
	return 0, ErrNotFound
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
