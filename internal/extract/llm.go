package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/finextract/internal/budget"
	"github.com/hyperifyio/finextract/internal/cache"
	"github.com/hyperifyio/finextract/internal/llm"
)

// Request defaults for the extraction call.
const (
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.2
	DefaultTopP        = 1.0
	DefaultMaxTokens   = 500
	DefaultTimeout     = 60 * time.Second
)

const promptTemplate = `Extract the following details from the financial report details as I provided and return them in JSON format:
- Revenue/Sales
- expenses/operating profit
- Net Profit

Do not give any other notes, just the above details only.
Financial Report:
`

// BuildPrompt returns the single user message sent to the model.
func BuildPrompt(text string) string {
	return promptTemplate + text
}

// LLMExtractor asks an OpenAI-compatible chat model for the figures and
// parses its streamed JSON answer.
type LLMExtractor struct {
	Client      llm.Client
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	// Timeout bounds the whole streamed call; 0 selects DefaultTimeout.
	Timeout time.Duration
	// Cache, when set, keeps accepted records keyed by model and prompt.
	Cache   *cache.Answers
	Verbose bool
}

// NewLLMExtractor returns an extractor with the default request settings.
func NewLLMExtractor(client llm.Client, model string) *LLMExtractor {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &LLMExtractor{
		Client:      client,
		Model:       model,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// Extract returns *RemoteServiceError when the call fails or times out and
// *ParseError when the answer is unusable.
func (x *LLMExtractor) Extract(ctx context.Context, text string) (Record, error) {
	if x.Client == nil || strings.TrimSpace(x.Model) == "" {
		return Record{}, &RemoteServiceError{Err: errors.New("llm not configured")}
	}
	if strings.TrimSpace(text) == "" {
		return Record{}, ErrEmptyInput
	}
	if fitted, cut := budget.FitText(x.Model, x.MaxTokens, promptTemplate, text); cut {
		log.Warn().Str("model", x.Model).Int("chars", len(fitted)).Int("original_chars", len(text)).Msg("ocr text exceeds model context; truncated")
		text = fitted
	}
	prompt := BuildPrompt(text)
	if x.Cache != nil {
		if ans, ok, _ := x.Cache.Lookup(ctx, x.Model, prompt); ok {
			var r Record
			if err := json.Unmarshal(ans.Record, &r); err == nil {
				log.Debug().Str("model", x.Model).Time("saved_at", ans.SavedAt).Msg("llm cache hit")
				return r, nil
			}
		}
	}

	timeout := x.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if x.Verbose {
		log.Debug().Str("stage", "extract").Str("model", x.Model).Int("prompt_len", len(prompt)).Msg("llm prompt")
	}
	raw, err := llm.CollectStream(callCtx, x.Client, openai.ChatCompletionRequest{
		Model:       x.Model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: x.Temperature,
		TopP:        x.TopP,
		MaxTokens:   x.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return Record{}, &RemoteServiceError{Err: err}
	}
	raw = strings.TrimSpace(raw)
	r, err := ParseRecord(raw)
	if err != nil {
		return Record{}, err
	}
	if x.Cache != nil {
		if err := x.Cache.Remember(ctx, x.Model, prompt, r); err != nil {
			log.Debug().Err(err).Msg("llm cache save failed")
		}
	}
	return r, nil
}
