package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig fills unset fields of cfg from the environment. It is
// used for configs built in code, where zero values mean "not provided".
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	fill := func(dst *string, keys ...string) {
		if strings.TrimSpace(*dst) != "" {
			return
		}
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	fill(&cfg.LLMBaseURL, "LLM_BASE_URL")
	fill(&cfg.LLMModel, "LLM_MODEL")
	fill(&cfg.LLMAPIKey, "LLM_API_KEY", "GROQ_API_KEY")
	fill(&cfg.LLMProxy, "LLM_PROXY")
	fill(&cfg.CacheDir, "CACHE_DIR")
}

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. Env takes precedence over the config file; explicit flags are applied
// after it and win.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setStr := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setStr(&cfg.InputDir, "INPUT_DIR")
	setStr(&cfg.OutputDir, "OUTPUT_DIR")
	setStr(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setStr(&cfg.LLMModel, "LLM_MODEL")
	setStr(&cfg.LLMAPIKey, "LLM_API_KEY", "GROQ_API_KEY")
	setStr(&cfg.LLMProxy, "LLM_PROXY")
	setStr(&cfg.PDFTextEngine, "PDF_TEXT_ENGINE")
	setStr(&cfg.CacheDir, "CACHE_DIR")

	setInt := func(dst *int, key string) {
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n >= 0 {
				*dst = n
			}
		}
	}
	setInt(&cfg.DPI, "DPI")
	setInt(&cfg.OCRPSM, "OCR_PSM")
	setInt(&cfg.MinTerms, "MIN_TERMS")
	setInt(&cfg.CacheMaxEntries, "CACHE_MAX_ENTRIES")

	setDuration := func(dst *time.Duration, key string) {
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.LLMTimeout, "LLM_TIMEOUT")
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")

	if s := strings.TrimSpace(os.Getenv("OCR_LANG")); s != "" {
		cfg.OCRLanguages = splitList(strings.ReplaceAll(s, "+", ","))
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.DisableLLM, "NO_LLM")
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.ReportXLSX, "REPORT_XLSX")
	setBool(&cfg.ReportPDF, "REPORT_PDF")
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
