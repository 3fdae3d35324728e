package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// DefaultDPI is the rasterization resolution used for OCR.
const DefaultDPI = 300

// RenderError reports a page that could not be rasterized.
type RenderError struct {
	Path string
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s page %d: %v", e.Path, e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Rasterizer renders single PDF pages to PNG files with MuPDF.
type Rasterizer struct {
	DPI int
}

// PageFileName is the raster image name for a 1-based page.
func PageFileName(page int) string {
	return fmt.Sprintf("page_%d.png", page)
}

// Render writes page (1-based) of the PDF at pdfPath to outDir/page_<n>.png
// and returns the written path. All failures are *RenderError.
func (r *Rasterizer) Render(ctx context.Context, pdfPath string, page int, outDir string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &RenderError{Path: pdfPath, Page: page, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return fail(fmt.Errorf("open: %w", err))
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return fail(fmt.Errorf("page out of range (document has %d pages)", doc.NumPage()))
	}
	png, err := doc.ImagePNG(page-1, float64(dpi))
	if err != nil {
		return fail(err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fail(err)
	}
	out := filepath.Join(outDir, PageFileName(page))
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fail(err)
	}
	log.Debug().Str("out", out).Int("page", page).Int("dpi", dpi).Msg("rendered page")
	return out, nil
}
