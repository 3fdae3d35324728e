package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/finextract/internal/document"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`

	LLM struct {
		BaseURL string        `yaml:"base" json:"base"`
		Model   string        `yaml:"model" json:"model"`
		APIKey  string        `yaml:"key" json:"key"`
		Timeout time.Duration `yaml:"timeout" json:"timeout"`
		Proxy   string        `yaml:"proxy" json:"proxy"`
		Disable bool          `yaml:"disable" json:"disable"`
	} `yaml:"llm" json:"llm"`

	PDF struct {
		TextEngine string   `yaml:"textEngine" json:"textEngine"`
		Markers    []string `yaml:"markers" json:"markers"`
		DPI        int      `yaml:"dpi" json:"dpi"`
	} `yaml:"pdf" json:"pdf"`

	Image struct {
		Contrast float64 `yaml:"contrast" json:"contrast"`
	} `yaml:"image" json:"image"`

	OCR struct {
		PSM       int      `yaml:"psm" json:"psm"`
		Languages []string `yaml:"languages" json:"languages"`
	} `yaml:"ocr" json:"ocr"`

	Terms struct {
		Vocabulary []string `yaml:"vocabulary" json:"vocabulary"`
		Min        int      `yaml:"min" json:"min"`
	} `yaml:"terms" json:"terms"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Report struct {
		XLSX bool `yaml:"xlsx" json:"xlsx"`
		PDF  bool `yaml:"pdf" json:"pdf"`
	} `yaml:"report" json:"report"`

	DryRun  bool `yaml:"dryRun" json:"dryRun"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. Callers apply
// env overrides and explicit flags afterwards so those win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setStr := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	setList := func(dst *[]string, v []string) {
		if len(v) > 0 {
			*dst = append([]string(nil), v...)
		}
	}

	setStr(&cfg.InputDir, fc.Input)
	setStr(&cfg.OutputDir, fc.Output)

	setStr(&cfg.LLMBaseURL, fc.LLM.BaseURL)
	setStr(&cfg.LLMModel, fc.LLM.Model)
	setStr(&cfg.LLMAPIKey, fc.LLM.APIKey)
	setStr(&cfg.LLMProxy, fc.LLM.Proxy)
	if fc.LLM.Timeout > 0 {
		cfg.LLMTimeout = fc.LLM.Timeout
	}
	if fc.LLM.Disable {
		cfg.DisableLLM = true
	}

	setStr(&cfg.PDFTextEngine, fc.PDF.TextEngine)
	setList(&cfg.Markers, fc.PDF.Markers)
	if fc.PDF.DPI > 0 {
		cfg.DPI = fc.PDF.DPI
	}
	if fc.Image.Contrast > 0 {
		cfg.Contrast = fc.Image.Contrast
	}
	if fc.OCR.PSM > 0 {
		cfg.OCRPSM = fc.OCR.PSM
	}
	setList(&cfg.OCRLanguages, fc.OCR.Languages)
	setList(&cfg.Vocabulary, fc.Terms.Vocabulary)
	if fc.Terms.Min > 0 {
		cfg.MinTerms = fc.Terms.Min
	}

	setStr(&cfg.CacheDir, fc.Cache.Dir)
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	cfg.CacheClear = cfg.CacheClear || fc.Cache.Clear
	cfg.CacheStrictPerms = cfg.CacheStrictPerms || fc.Cache.StrictPerms

	cfg.ReportXLSX = cfg.ReportXLSX || fc.Report.XLSX
	cfg.ReportPDF = cfg.ReportPDF || fc.Report.PDF
	cfg.DryRun = cfg.DryRun || fc.DryRun
	cfg.Verbose = cfg.Verbose || fc.Verbose
}

// ValidateConfig performs minimal validation of required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputDir) == "" {
		return errors.New("config: input directory is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output directory is required")
	}
	if filepath.Clean(cfg.InputDir) == filepath.Clean(cfg.OutputDir) {
		return errors.New("config: input and output directories must differ")
	}
	switch cfg.PDFTextEngine {
	case "", document.EngineLedongthuc, document.EngineMuPDF:
	default:
		return fmt.Errorf("config: unknown pdf.textEngine %q", cfg.PDFTextEngine)
	}
	if cfg.DPI < 0 || cfg.OCRPSM < 0 || cfg.OCRPSM > 13 || cfg.MinTerms < 0 || cfg.CacheMaxEntries < 0 {
		return errors.New("config: negative or out of range limits are not allowed")
	}
	if cfg.Contrast < 0 {
		return errors.New("config: image.contrast must not be negative")
	}
	if cfg.LLMTimeout < 0 {
		return errors.New("config: llm.timeout must not be negative")
	}
	return nil
}
