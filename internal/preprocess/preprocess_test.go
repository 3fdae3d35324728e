package preprocess

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			c := color.NRGBA{R: 200, G: 120, B: 90, A: 255}
			if x >= 20 {
				c = color.NRGBA{R: 60, G: 60, B: 140, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/out/doc/page_3.png"); got != "/out/doc/page_3_preprocessed.png" {
		t.Fatalf("OutputPath=%q", got)
	}
}

func TestContrastPercentage(t *testing.T) {
	cases := map[float64]float64{2.0: 50, 1.0: 0, 4.0: 75, 0.5: -50, 0: -100}
	for in, want := range cases {
		if got := contrastPercentage(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("contrastPercentage(%v)=%v, want %v", in, got, want)
		}
	}
	if got := contrastPercentage(1000); got >= 100 {
		t.Fatalf("large factors must stay below the threshold setting, got %v", got)
	}
}

// A horizontal 0..255 ramp must keep its gradations: the default contrast
// doubles the distance from mid-gray instead of thresholding.
func TestApply_GreyRampKeepsLevels(t *testing.T) {
	ramp := image.NewGray(image.Rect(0, 0, 256, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 256; x++ {
			ramp.SetGray(x, y, color.Gray{Y: uint8(x)})
		}
	}
	out := (&Preprocessor{}).Apply(ramp)
	levels := map[uint8]bool{}
	for x := 0; x < 256; x++ {
		levels[out.GrayAt(x, 2).Y] = true
	}
	if len(levels) <= 64 {
		t.Fatalf("ramp collapsed to %d levels", len(levels))
	}
	// Mid-gray is the pivot; a quarter step from it moves about twice as far.
	if mid := out.GrayAt(128, 2).Y; mid < 124 || mid > 132 {
		t.Fatalf("mid-gray moved to %d", mid)
	}
	if v := out.GrayAt(96, 2).Y; v < 58 || v > 70 {
		t.Fatalf("96 mapped to %d, want about 64", v)
	}
}

func TestApply_IncreasesContrastAndKeepsSize(t *testing.T) {
	p := &Preprocessor{}
	out := p.Apply(testImage())
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 20 {
		t.Fatalf("size changed: %v", out.Bounds())
	}
	plain := toGray(imaging.Grayscale(testImage()))
	// Sample the interior of each half, away from the edge the sharpen
	// kernel reacts to.
	lightBefore, darkBefore := plain.GrayAt(5, 10).Y, plain.GrayAt(35, 10).Y
	lightAfter, darkAfter := out.GrayAt(5, 10).Y, out.GrayAt(35, 10).Y
	if int(lightAfter)-int(darkAfter) <= int(lightBefore)-int(darkBefore) {
		t.Fatalf("expected wider spread: before %d/%d after %d/%d", lightBefore, darkBefore, lightAfter, darkAfter)
	}
}

func TestApply_Deterministic(t *testing.T) {
	p := &Preprocessor{Contrast: 2}
	a, b := p.Apply(testImage()), p.Apply(testImage())
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("transform is not deterministic")
	}
}

func TestProcess_WritesPreprocessedFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page_1.png")
	if err := imaging.Save(testImage(), in); err != nil {
		t.Fatal(err)
	}
	out, err := (&Preprocessor{}).Process(context.Background(), in)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if out != filepath.Join(dir, "page_1_preprocessed.png") {
		t.Fatalf("out=%q", out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestProcess_UnreadableInputIsImageError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page_1.png")
	_ = os.WriteFile(in, []byte("not a png"), 0o644)
	_, err := (&Preprocessor{}).Process(context.Background(), in)
	var ie *ImageError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *ImageError, got %v", err)
	}
}
