package app

import (
	"os"
	"path/filepath"
	"testing"
)

// LoadEnvFiles reads KEY=VALUE pairs and populates the process environment.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=beta\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}

	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestLoadEnvFiles_MissingFileIsSkipped(t *testing.T) {
	if err := LoadEnvFiles(filepath.Join(t.TempDir(), ".env"), ""); err != nil {
		t.Fatalf("missing dotenv should be ignored: %v", err)
	}
}

func TestApplyEnvToConfig_FillsOnlyUnset(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("CACHE_DIR", "/tmp/finextract-cache")

	cfg := Config{LLMModel: "explicit-model"}
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "gsk-test" {
		t.Fatalf("api key should fall back to GROQ_API_KEY, got %q", cfg.LLMAPIKey)
	}
	if cfg.LLMModel != "explicit-model" {
		t.Fatalf("set fields must be kept, got %q", cfg.LLMModel)
	}
	if cfg.CacheDir != "/tmp/finextract-cache" {
		t.Fatalf("CacheDir=%q", cfg.CacheDir)
	}
}

func TestApplyEnvOverrides_OverridesAndParses(t *testing.T) {
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("GROQ_API_KEY", "secondary")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("DPI", "150")
	t.Setenv("OCR_LANG", "eng+fin")
	t.Setenv("NO_LLM", "yes")
	t.Setenv("REPORT_XLSX", "off")
	t.Setenv("OCR_PSM", "not-a-number")

	cfg := DefaultConfig()
	cfg.ReportXLSX = true
	ApplyEnvOverrides(&cfg)

	if cfg.LLMAPIKey != "primary" {
		t.Fatalf("LLM_API_KEY should win over GROQ_API_KEY, got %q", cfg.LLMAPIKey)
	}
	if cfg.LLMTimeout.String() != "15s" || cfg.DPI != 150 {
		t.Fatalf("timeout=%v dpi=%d", cfg.LLMTimeout, cfg.DPI)
	}
	if len(cfg.OCRLanguages) != 2 || cfg.OCRLanguages[1] != "fin" {
		t.Fatalf("OCRLanguages=%v", cfg.OCRLanguages)
	}
	if !cfg.DisableLLM || cfg.ReportXLSX {
		t.Fatalf("bool overrides not applied: %+v", cfg)
	}
	if cfg.OCRPSM != DefaultConfig().OCRPSM {
		t.Fatalf("invalid OCR_PSM must be ignored, got %d", cfg.OCRPSM)
	}
}
