package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// PSMUniformBlock treats the image as a single uniform block of text, which
// keeps table rows on one line.
const PSMUniformBlock = int(gosseract.PSM_SINGLE_BLOCK)

// Tesseract is an Engine backed by libtesseract through gosseract.
type Tesseract struct {
	// Languages defaults to eng.
	Languages []string
	// PSM is the page segmentation mode; 0 selects PSMUniformBlock.
	PSM int
}

func (t *Tesseract) Text(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	langs := t.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	if err := client.SetLanguage(langs...); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	psm := t.PSM
	if psm == 0 {
		psm = PSMUniformBlock
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(psm)); err != nil {
		return "", fmt.Errorf("set psm %d: %w", psm, err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	return client.Text()
}
