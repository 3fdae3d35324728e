package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/finextract/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath  string
		envFiles    string
		ocrLang     string
		showVersion bool
		fl          = app.DefaultConfig()
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load; missing files are ignored")
	flag.StringVar(&fl.InputDir, "input", fl.InputDir, "Directory containing PDF reports, or a single PDF")
	flag.StringVar(&fl.OutputDir, "output", fl.OutputDir, "Directory for per-document outputs")
	flag.StringVar(&fl.LLMBaseURL, "llm.base", fl.LLMBaseURL, "OpenAI-compatible base URL (env LLM_BASE_URL)")
	flag.StringVar(&fl.LLMModel, "llm.model", fl.LLMModel, "Model name (env LLM_MODEL)")
	flag.StringVar(&fl.LLMAPIKey, "llm.key", "", "API key (env LLM_API_KEY, then GROQ_API_KEY)")
	flag.DurationVar(&fl.LLMTimeout, "llm.timeout", fl.LLMTimeout, "Timeout for one extraction call")
	flag.StringVar(&fl.LLMProxy, "llm.proxy", "", "Proxy URL for the LLM endpoint; defaults to HTTP(S)_PROXY")
	flag.BoolVar(&fl.DisableLLM, "no-llm", false, "Skip the LLM tier and use pattern extraction only")
	flag.IntVar(&fl.DPI, "dpi", fl.DPI, "Rasterization resolution")
	flag.IntVar(&fl.OCRPSM, "ocr.psm", fl.OCRPSM, "Tesseract page segmentation mode")
	flag.StringVar(&ocrLang, "ocr.lang", strings.Join(fl.OCRLanguages, "+"), "Tesseract languages, e.g. eng or eng+fin")
	flag.StringVar(&fl.PDFTextEngine, "pdf.textEngine", "", "Text layer engine for page location: ledongthuc or mupdf")
	flag.StringVar(&fl.CacheDir, "cache.dir", fl.CacheDir, "LLM cache directory path")
	flag.DurationVar(&fl.CacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.IntVar(&fl.CacheMaxEntries, "cache.maxEntries", 0, "Keep at most this many cache entries; 0 disables")
	flag.BoolVar(&fl.CacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&fl.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&fl.ReportXLSX, "report.xlsx", false, "Also write summary.xlsx")
	flag.BoolVar(&fl.ReportPDF, "report.pdf", false, "Also write summary.pdf")
	flag.BoolVar(&fl.DryRun, "dry-run", false, "Locate financial pages only; write nothing")
	flag.BoolVar(&fl.Verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.VersionString())
		return
	}
	fl.OCRLanguages = splitList(strings.ReplaceAll(ocrLang, "+", ","))

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := loadConfig(configPath, splitList(envFiles), fl, set)
	if err != nil {
		log.Error().Err(err).Msg("configuration failed")
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	sum, err := run(ctx, cfg)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("run failed")
	}
	os.Exit(exitCode(sum, err))
}

// loadConfig layers built-in defaults, the config file, environment
// overrides and explicitly set flags, each winning over the previous.
func loadConfig(configPath string, envFiles []string, fl app.Config, set map[string]bool) (app.Config, error) {
	if err := app.LoadEnvFiles(envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := app.DefaultConfig()
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)
	applyFlags(&cfg, fl, set)
	return cfg, app.ValidateConfig(cfg)
}

func applyFlags(cfg *app.Config, fl app.Config, set map[string]bool) {
	for name := range set {
		switch name {
		case "input":
			cfg.InputDir = fl.InputDir
		case "output":
			cfg.OutputDir = fl.OutputDir
		case "llm.base":
			cfg.LLMBaseURL = fl.LLMBaseURL
		case "llm.model":
			cfg.LLMModel = fl.LLMModel
		case "llm.key":
			cfg.LLMAPIKey = fl.LLMAPIKey
		case "llm.timeout":
			cfg.LLMTimeout = fl.LLMTimeout
		case "llm.proxy":
			cfg.LLMProxy = fl.LLMProxy
		case "no-llm":
			cfg.DisableLLM = fl.DisableLLM
		case "dpi":
			cfg.DPI = fl.DPI
		case "ocr.psm":
			cfg.OCRPSM = fl.OCRPSM
		case "ocr.lang":
			cfg.OCRLanguages = fl.OCRLanguages
		case "pdf.textEngine":
			cfg.PDFTextEngine = fl.PDFTextEngine
		case "cache.dir":
			cfg.CacheDir = fl.CacheDir
		case "cache.maxAge":
			cfg.CacheMaxAge = fl.CacheMaxAge
		case "cache.maxEntries":
			cfg.CacheMaxEntries = fl.CacheMaxEntries
		case "cache.clear":
			cfg.CacheClear = fl.CacheClear
		case "cache.strictPerms":
			cfg.CacheStrictPerms = fl.CacheStrictPerms
		case "report.xlsx":
			cfg.ReportXLSX = fl.ReportXLSX
		case "report.pdf":
			cfg.ReportPDF = fl.ReportPDF
		case "dry-run":
			cfg.DryRun = fl.DryRun
		case "v":
			cfg.Verbose = fl.Verbose
		}
	}
}

func run(ctx context.Context, cfg app.Config) (app.Summary, error) {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return app.Summary{}, fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

// exitCode maps a run outcome to the process exit code: 2 when there was
// nothing to process, 1 on fatal errors or degraded documents, else 0.
func exitCode(sum app.Summary, err error) int {
	switch {
	case errors.Is(err, app.ErrNoDocuments):
		return 2
	case err != nil:
		return 1
	}
	return sum.ExitCode()
}

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
