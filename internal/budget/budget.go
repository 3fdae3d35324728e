// Package budget estimates prompt sizes so OCR text sent to a model stays
// inside its context window.
package budget

import (
	"math"
	"strings"
	"unicode/utf8"
)

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token in English). The
// result is always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
	return EstimateTokensFromChars(len(s))
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Unknown models fall back to a conservative default.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	// Suffixes such as mixtral-8x7b-32768 carry the window size
	for _, s := range []struct {
		suffix string
		tokens int
	}{{"128k", 128_000}, {"32768", 32_768}, {"32k", 32_768}, {"8192", 8192}} {
		if strings.HasSuffix(name, s.suffix) {
			return s.tokens
		}
	}
	return 8192
}

// HeadroomTokens returns a safety margin for tokenizer and message framing
// overheads: the larger of 5% of the model context or 512 tokens.
func HeadroomTokens(modelName string) int {
	dyn := int(math.Ceil(float64(ModelContextTokens(modelName)) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContext computes the remaining input token budget given a model,
// a reservation for output generation and the prompt tokens already used.
// Headroom is included. The result is never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	remaining := ModelContextTokens(modelName) - HeadroomTokens(modelName) - reservedForOutput - promptTokens
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FitText trims text so that fixed+text fits the model context while
// reserving reservedForOutput tokens. It cuts at the last line break inside
// the budget when there is one, never splits a UTF-8 sequence, and reports
// whether anything was removed.
func FitText(modelName string, reservedForOutput int, fixed, text string) (string, bool) {
	maxChars := RemainingContext(modelName, reservedForOutput, EstimateTokens(fixed)) * 4
	if len(text) <= maxChars {
		return text, false
	}
	for maxChars > 0 && !utf8.RuneStart(text[maxChars]) {
		maxChars--
	}
	cut := text[:maxChars]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return cut, true
}

// knownModelMax contains rough context sizes for common model identifiers.
var knownModelMax = map[string]int{
	// Groq hosted
	"llama-3.3-70b-versatile": 128_000,
	"llama-3.1-8b-instant":    128_000,
	"llama3-70b-8192":         8192,
	"llama3-8b-8192":          8192,
	"gemma2-9b-it":            8192,

	// OpenAI family (approximate)
	"gpt-4o":        128_000,
	"gpt-4o-mini":   128_000,
	"gpt-3.5-turbo": 16_384,

	// Small local backends
	"test-model": 4096,
}
