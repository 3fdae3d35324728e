package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/finextract/internal/cache"
	"github.com/hyperifyio/finextract/internal/document"
	"github.com/hyperifyio/finextract/internal/extract"
	"github.com/hyperifyio/finextract/internal/llm"
	"github.com/hyperifyio/finextract/internal/ocr"
	"github.com/hyperifyio/finextract/internal/preprocess"
	"github.com/hyperifyio/finextract/internal/render"
	"github.com/hyperifyio/finextract/internal/terms"
)

// ErrNoDocuments is returned when the input directory holds no PDF files.
// The CLI maps it to exit code 2.
var ErrNoDocuments = errors.New("no pdf documents found")

// Stage seams. The concrete implementations come from the pipeline packages;
// tests substitute stubs so no PDF engine or OCR runtime is needed.
type (
	documentOpener func(path string) (document.Document, error)

	pageRasterizer interface {
		Render(ctx context.Context, pdfPath string, page int, outDir string) (string, error)
	}

	imagePreprocessor interface {
		Process(ctx context.Context, in string) (string, error)
	}

	textExtractor interface {
		Extract(ctx context.Context, imagePath string) string
	}

	recordExtractor interface {
		ExtractTier(ctx context.Context, text string) (extract.Record, string, error)
	}
)

type App struct {
	cfg        Config
	runID      string
	ai         *openai.Client
	httpClient *http.Client

	open      documentOpener
	locator   *document.Locator
	rasterize pageRasterizer
	prep      imagePreprocessor
	ocr       textExtractor
	terms     *terms.Filter
	extractor recordExtractor
}

func New(ctx context.Context, cfg Config) (*App, error) {
	ApplyEnvToConfig(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		runID: uuid.NewString(),
		open: func(path string) (document.Document, error) {
			return document.Open(path, cfg.PDFTextEngine)
		},
		locator:   &document.Locator{Markers: cfg.Markers},
		rasterize: &render.Rasterizer{DPI: cfg.DPI},
		prep:      &preprocess.Preprocessor{Contrast: cfg.Contrast},
		ocr:       &ocr.TextExtractor{Engine: &ocr.Tesseract{Languages: cfg.OCRLanguages, PSM: cfg.OCRPSM}},
		terms:     terms.New(cfg.Vocabulary, cfg.MinTerms),
	}

	var answers *cache.Answers
	if cfg.CacheDir != "" {
		// Apply cache invalidation controls; errors never fail startup
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		if cfg.CacheMaxAge > 0 {
			_, _ = cache.PurgeOlderThan(cfg.CacheDir, cfg.CacheMaxAge)
		}
		if cfg.CacheMaxEntries > 0 {
			_, _ = cache.EnforceLimits(cfg.CacheDir, 0, cfg.CacheMaxEntries)
		}
		answers = &cache.Answers{Dir: cfg.CacheDir, Private: cfg.CacheStrictPerms}
	}

	var tiers []extract.Tier
	if !cfg.DisableLLM && strings.TrimSpace(cfg.LLMModel) != "" {
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			log.Warn().Msg("LLM API key not set; requests may be rejected")
		}
		a.httpClient = newLLMHTTPClient(cfg.LLMProxy)
		a.ai = llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, a.httpClient)
		a.preflight(ctx)

		x := extract.NewLLMExtractor(a.ai, cfg.LLMModel)
		if cfg.LLMTimeout > 0 {
			x.Timeout = cfg.LLMTimeout
		}
		x.Cache = answers
		x.Verbose = cfg.Verbose
		tiers = append(tiers, extract.Tier{Name: "llm", Extractor: x})
	}
	tiers = append(tiers, extract.Tier{Name: "regex", Extractor: extract.RegexExtractor{}})
	a.extractor = extract.NewChain(tiers...)

	return a, nil
}

// preflight lists models as a connectivity check. It only warns.
func (a *App) preflight(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := a.ai.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Close releases the keep-alive connections held for the extraction service.
// It is safe to call more than once.
func (a *App) Close() {
	if a.httpClient != nil {
		a.httpClient.CloseIdleConnections()
	}
}

// RunID identifies this run in logs, manifests and the summary.
func (a *App) RunID() string { return a.runID }

// Run processes every PDF in the input directory, or the single input PDF,
// one at a time. Document
// failures are recorded in the summary and never abort the batch; a
// cancelled context stops it between documents.
func (a *App) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: a.runID, Version: BuildVersion, StartedAt: time.Now().UTC(), DryRun: a.cfg.DryRun}

	files, err := document.Inputs(a.cfg.InputDir)
	if err != nil {
		return sum, fmt.Errorf("list input: %w", err)
	}
	if len(files) == 0 {
		log.Warn().Str("input", a.cfg.InputDir).Msg("no pdf documents found")
		return sum, ErrNoDocuments
	}
	log.Info().Str("run_id", a.runID).Int("documents", len(files)).Msg("starting run")

	if !a.cfg.DryRun {
		if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
			return sum, fmt.Errorf("create output dir: %w", err)
		}
	}

	dirs := documentOutputDirs(a.cfg.OutputDir, files)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("run cancelled; stopping before next document")
			sum.FinishedAt = time.Now().UTC()
			return sum, err
		}
		var res DocumentResult
		if a.cfg.DryRun {
			res = a.locateOnly(ctx, path)
		} else {
			res = a.processDocument(ctx, path, dirs[path])
		}
		sum.Documents = append(sum.Documents, res)
	}
	sum.FinishedAt = time.Now().UTC()

	if a.cfg.DryRun {
		return sum, nil
	}
	if err := a.writeSummaries(sum); err != nil {
		return sum, err
	}
	c := sum.Counts()
	log.Info().Int("ok", c[StatusOK]).Int("empty", c[StatusEmpty]).Int("skipped", c[StatusSkipped]).Int("failed", c[StatusFailed]).Msg("run finished")
	return sum, nil
}

// locatePage opens path and finds its financial-results page.
func (a *App) locatePage(ctx context.Context, path string) (int, error) {
	doc, err := a.open(path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return a.locator.Locate(ctx, doc)
}

func (a *App) locateOnly(ctx context.Context, path string) DocumentResult {
	res := DocumentResult{Document: filepath.Base(path)}
	page, err := a.locatePage(ctx, path)
	switch {
	case errors.Is(err, document.ErrNotFound):
		res.Status = StatusSkipped
		log.Info().Str("doc", res.Document).Msg("no financial table found; skipping")
	case err != nil:
		res.Status = StatusFailed
		res.Error = err.Error()
		log.Warn().Err(err).Str("doc", res.Document).Msg("open failed")
	default:
		res.Status = StatusLocated
		res.Page = page
		log.Info().Str("doc", res.Document).Int("page", page).Msg("financial table located")
	}
	return res
}

func (a *App) processDocument(ctx context.Context, path, outDir string) DocumentResult {
	res := DocumentResult{Document: filepath.Base(path)}
	logger := log.With().Str("doc", res.Document).Logger()

	page, err := a.locatePage(ctx, path)
	if errors.Is(err, document.ErrNotFound) {
		res.Status = StatusSkipped
		logger.Info().Msg("no financial table found; skipping")
		return res
	}
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		logger.Warn().Err(err).Msg("open failed; skipping document")
		return res
	}
	res.Page = page
	logger = logger.With().Int("page", page).Logger()

	res.OutputDir = outDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		logger.Error().Err(err).Msg("create document dir failed")
		return res
	}

	man := a.newManifest(path, page)
	text, err := a.imageText(ctx, path, page, outDir)
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		logger.Error().Err(err).Msg("page imaging failed; writing empty record")
		a.finishDocument(&res, &man, extract.Record{}, logger)
		return res
	}
	if err := os.WriteFile(filepath.Join(outDir, textFileName(page)), []byte(text), 0o644); err != nil {
		logger.Warn().Err(err).Msg("write ocr text failed")
	}
	man.OCRChars = len(text)

	found := a.terms.Found(text)
	res.Financial = len(found) >= a.terms.Min()
	man.TermsFound = found
	man.Financial = res.Financial
	logger.Info().Int("terms", len(found)).Bool("financial", res.Financial).Msg("ocr text scored")

	rec, tier, err := a.extractor.ExtractTier(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Msg("all extraction tiers failed; writing empty record")
		rec = extract.Record{}
	}
	res.Tier = tier
	man.Tier = tier
	if tier == "llm" {
		man.Model = a.cfg.LLMModel
		man.LLMBaseURL = a.cfg.LLMBaseURL
	}
	a.finishDocument(&res, &man, rec, logger)
	return res
}

// imageText renders page, preprocesses the image and returns its OCR text.
func (a *App) imageText(ctx context.Context, path string, page int, outDir string) (string, error) {
	pngPath, err := a.rasterize.Render(ctx, path, page, outDir)
	if err != nil {
		return "", err
	}
	prepared, err := a.prep.Process(ctx, pngPath)
	if err != nil {
		return "", err
	}
	return a.ocr.Extract(ctx, prepared), nil
}

// finishDocument writes the record, manifest and checksums and sets the
// final status. A failed status set earlier is kept.
func (a *App) finishDocument(res *DocumentResult, man *documentManifest, rec extract.Record, logger zerolog.Logger) {
	r := rec
	res.Record = &r
	if res.Status == "" {
		res.Status = StatusOK
		if rec.Empty() {
			res.Status = StatusEmpty
		}
	}
	if err := writeRecord(res.OutputDir, rec); err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		logger.Error().Err(err).Msg("write record failed")
		return
	}
	man.Status = res.Status
	man.Error = res.Error
	man.Fields = rec.Present()
	if err := writeJSON(filepath.Join(res.OutputDir, manifestFileName), man); err != nil {
		logger.Warn().Err(err).Msg("write manifest failed")
	}
	if err := writeSHA256SUMS(res.OutputDir); err != nil {
		logger.Warn().Err(err).Msg("write checksums failed")
	}
	logger.Info().Str("status", string(res.Status)).Str("tier", res.Tier).Str("out", res.OutputDir).Msg("wrote output")
}

func (a *App) writeSummaries(sum Summary) error {
	p := filepath.Join(a.cfg.OutputDir, summaryJSONName)
	if err := writeJSON(p, sum); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	log.Info().Str("out", p).Msg("wrote summary")
	if a.cfg.ReportXLSX {
		p := filepath.Join(a.cfg.OutputDir, summaryXLSXName)
		if err := writeSummaryXLSX(sum, p); err != nil {
			log.Warn().Err(err).Msg("write xlsx summary failed")
		} else {
			log.Info().Str("out", p).Msg("wrote xlsx summary")
		}
	}
	if a.cfg.ReportPDF {
		p := filepath.Join(a.cfg.OutputDir, summaryPDFName)
		if err := writeSummaryPDF(sum, p); err != nil {
			log.Warn().Err(err).Msg("write pdf summary failed")
		} else {
			log.Info().Str("out", p).Msg("wrote pdf summary")
		}
	}
	return nil
}
