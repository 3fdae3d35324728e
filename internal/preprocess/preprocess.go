package preprocess

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// DefaultContrast is the multiplicative contrast factor applied before OCR.
const DefaultContrast = 2.0

// sharpenKernel is the classic 3x3 sharpen filter; Convolve3x3 normalizes it
// by its sum (16).
var sharpenKernel = [9]float64{
	-2, -2, -2,
	-2, 32, -2,
	-2, -2, -2,
}

// ImageError reports an image that could not be read or written.
type ImageError struct {
	Path string
	Err  error
}

func (e *ImageError) Error() string { return fmt.Sprintf("preprocess %s: %v", e.Path, e.Err) }

func (e *ImageError) Unwrap() error { return e.Err }

// Preprocessor cleans a page raster for OCR: grayscale, contrast, sharpen.
type Preprocessor struct {
	// Contrast is a multiplicative factor around mid-gray; 1 leaves the
	// image unchanged and 0 selects DefaultContrast.
	Contrast float64
}

// OutputPath maps page_3.png to page_3_preprocessed.png.
func OutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_preprocessed" + ext
}

// Process writes the cleaned image next to in and returns its path.
func (p *Preprocessor) Process(ctx context.Context, in string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := imaging.Open(in)
	if err != nil {
		return "", &ImageError{Path: in, Err: err}
	}
	out := OutputPath(in)
	if err := imaging.Save(p.Apply(img), out); err != nil {
		return "", &ImageError{Path: out, Err: err}
	}
	log.Debug().Str("out", out).Msg("preprocessed image")
	return out, nil
}

// Apply runs the transform in memory and returns a single-channel image.
func (p *Preprocessor) Apply(img image.Image) *image.Gray {
	factor := p.Contrast
	if factor == 0 {
		factor = DefaultContrast
	}
	gray := imaging.Grayscale(img)
	contrasted := imaging.AdjustContrast(gray, contrastPercentage(factor))
	sharp := imaging.Convolve3x3(contrasted, sharpenKernel, &imaging.ConvolveOptions{Normalize: true})
	return toGray(sharp)
}

// contrastPercentage converts a multiplicative factor to imaging's
// percentage scale. imaging scales by 1+p/100 below zero and by
// 1/(1-p/100) above it, so a factor f >= 1 needs p = 100*(1-1/f). The
// result stays below +100, which imaging treats as a hard threshold.
func contrastPercentage(factor float64) float64 {
	if factor >= 1 {
		return 100 * (1 - 1/factor)
	}
	if factor <= 0 {
		return -100
	}
	return (factor - 1) * 100
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}
