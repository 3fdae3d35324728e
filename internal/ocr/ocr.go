package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Engine turns an image file into text.
type Engine interface {
	Text(ctx context.Context, imagePath string) (string, error)
}

// OCRError wraps an engine failure for one image.
type OCRError struct {
	Path string
	Err  error
}

func (e *OCRError) Error() string { return fmt.Sprintf("ocr %s: %v", e.Path, e.Err) }

func (e *OCRError) Unwrap() error { return e.Err }

// TextExtractor runs an Engine and degrades every failure to empty text so
// downstream extraction still gets a chance to run.
type TextExtractor struct {
	Engine Engine
}

// Extract returns the recognized text, or "" when the engine fails.
func (x *TextExtractor) Extract(ctx context.Context, imagePath string) string {
	if x == nil || x.Engine == nil {
		log.Warn().Str("image", imagePath).Msg("no ocr engine configured")
		return ""
	}
	text, err := x.Engine.Text(ctx, imagePath)
	if err != nil {
		log.Warn().Err(&OCRError{Path: imagePath, Err: err}).Msg("ocr failed; continuing with empty text")
		return ""
	}
	text = strings.TrimSpace(text)
	log.Debug().Str("image", imagePath).Int("chars", len(text)).Msg("ocr complete")
	return text
}
