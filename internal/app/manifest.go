package app

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// documentManifest captures how one document's outputs were produced.
type documentManifest struct {
	RunID        string    `json:"run_id"`
	Version      string    `json:"version"`
	Source       string    `json:"source"`
	SourceSHA256 string    `json:"source_sha256"`
	Page         int       `json:"page"`
	DPI          int       `json:"dpi"`
	Contrast     float64   `json:"contrast"`
	OCRPSM       int       `json:"ocr_psm"`
	OCRLanguages []string  `json:"ocr_languages"`
	OCRChars     int       `json:"ocr_chars"`
	TermsFound   []string  `json:"terms_found"`
	Financial    bool      `json:"financial"`
	Tier         string    `json:"tier,omitempty"`
	Model        string    `json:"model,omitempty"`
	LLMBaseURL   string    `json:"llm_base_url,omitempty"`
	Fields       int       `json:"fields"`
	Status       Status    `json:"status"`
	Error        string    `json:"error,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

func (a *App) newManifest(pdfPath string, page int) documentManifest {
	sum, err := sha256File(pdfPath)
	if err != nil {
		log.Debug().Err(err).Str("doc", filepath.Base(pdfPath)).Msg("source digest failed")
	}
	return documentManifest{
		RunID:        a.runID,
		Version:      BuildVersion,
		Source:       filepath.Base(pdfPath),
		SourceSHA256: sum,
		Page:         page,
		DPI:          a.cfg.DPI,
		Contrast:     a.cfg.Contrast,
		OCRPSM:       a.cfg.OCRPSM,
		OCRLanguages: a.cfg.OCRLanguages,
		TermsFound:   []string{},
		GeneratedAt:  time.Now().UTC(),
	}
}
