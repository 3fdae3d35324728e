package app

import (
	"time"

	"github.com/hyperifyio/finextract/internal/extract"
	"github.com/hyperifyio/finextract/internal/ocr"
	"github.com/hyperifyio/finextract/internal/preprocess"
	"github.com/hyperifyio/finextract/internal/render"
	"github.com/hyperifyio/finextract/internal/terms"
)

// Config holds runtime configuration for the application.
type Config struct {
	InputDir  string
	OutputDir string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	LLMTimeout time.Duration
	LLMProxy   string
	DisableLLM bool

	// Page location and imaging
	PDFTextEngine string
	Markers       []string
	DPI           int
	Contrast      float64

	// OCR
	OCRPSM       int
	OCRLanguages []string

	// Relevance
	Vocabulary []string
	MinTerms   int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool

	// Reports
	ReportXLSX bool
	ReportPDF  bool

	// Behavior
	DryRun  bool
	Verbose bool
}

// Defaults used by flags and config layering.
const (
	DefaultInputDir   = "input"
	DefaultOutputDir  = "output"
	DefaultLLMBaseURL = "https://api.groq.com/openai/v1"
	DefaultCacheDir   = ".finextract-cache"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		InputDir:     DefaultInputDir,
		OutputDir:    DefaultOutputDir,
		LLMBaseURL:   DefaultLLMBaseURL,
		LLMModel:     extract.DefaultModel,
		LLMTimeout:   extract.DefaultTimeout,
		DPI:          render.DefaultDPI,
		Contrast:     preprocess.DefaultContrast,
		OCRPSM:       ocr.PSMUniformBlock,
		OCRLanguages: []string{"eng"},
		MinTerms:     terms.DefaultMinTerms,
		CacheDir:     DefaultCacheDir,
	}
}
