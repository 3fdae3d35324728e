package document

import (
	"context"
	"errors"
	"testing"
)

type fakePages struct {
	texts []string
	errs  map[int]error
	reads []int
}

func (f *fakePages) NumPage() int { return len(f.texts) }

func (f *fakePages) PageText(_ context.Context, page int) (string, error) {
	f.reads = append(f.reads, page)
	if err := f.errs[page]; err != nil {
		return "", err
	}
	return f.texts[page-1], nil
}

func TestLocate_ReturnsFirstMatchingPage(t *testing.T) {
	src := &fakePages{texts: []string{
		"Notice of board meeting",
		"Chairman's letter",
		"Statement of results\nNet Profit 40.00",
		"Revenue from Operations 500",
	}}
	page, err := NewLocator().Locate(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 3 {
		t.Fatalf("page=%d, want 3", page)
	}
	if len(src.reads) != 3 {
		t.Fatalf("expected scan to stop at first match, read pages %v", src.reads)
	}
}

func TestLocate_MarkersAreCaseSensitive(t *testing.T) {
	src := &fakePages{texts: []string{"net profit 40", "NET PROFIT 40"}}
	if _, err := NewLocator().Locate(context.Background(), src); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocate_NotFound(t *testing.T) {
	src := &fakePages{texts: []string{"cover", "", "annexure"}}
	page, err := NewLocator().Locate(context.Background(), src)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if page != 0 {
		t.Fatalf("page=%d, want 0", page)
	}
}

func TestLocate_SkipsUnreadablePages(t *testing.T) {
	src := &fakePages{
		texts: []string{"Profit Before Tax 10", "Profit Before Tax 20"},
		errs:  map[int]error{1: errors.New("broken stream")},
	}
	page, err := NewLocator().Locate(context.Background(), src)
	if err != nil || page != 2 {
		t.Fatalf("page=%d err=%v, want 2 <nil>", page, err)
	}
}

func TestLocate_CustomMarkers(t *testing.T) {
	src := &fakePages{texts: []string{"Net Profit", "Segment Revenue"}}
	l := &Locator{Markers: []string{"Segment Revenue"}}
	page, err := l.Locate(context.Background(), src)
	if err != nil || page != 2 {
		t.Fatalf("page=%d err=%v, want 2 <nil>", page, err)
	}
}

func TestLocate_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakePages{texts: []string{"Net Profit"}}
	if _, err := NewLocator().Locate(ctx, src); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
