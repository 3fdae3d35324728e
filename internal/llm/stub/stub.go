// Package stub serves a minimal OpenAI-compatible API for offline runs and
// tests. Chat completions are answered as server-sent events.
package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultContent is the answer used when Handler.Content is nil.
const DefaultContent = `{"Revenue/Sales": 500, "Operating Profit": 50, "Net Profit": 40}`

// Handler answers /v1/models and /v1/chat/completions.
type Handler struct {
	Model string
	// Content returns the assistant reply for the last user message.
	Content func(prompt string) string
	// ChunkSize splits the reply into deltas of at most this many bytes.
	ChunkSize int
	// BreakAfter, when positive, emits a malformed event after that many
	// chunks so clients see a mid-stream failure.
	BreakAfter int
	// Delay is slept before the first event.
	Delay time.Duration
	// Status, when non-zero, is returned instead of a stream.
	Status int

	mu       sync.Mutex
	requests []Request
}

// Request is a decoded chat completion request as seen by the stub.
type Request struct {
	Model       string  `json:"model"`
	Stream      bool    `json:"stream"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// Requests returns the chat requests received so far.
func (h *Handler) Requests() []Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Request(nil), h.requests...)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/models"):
		h.models(w)
	case strings.HasSuffix(r.URL.Path, "/chat/completions"):
		h.chat(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) model() string {
	if strings.TrimSpace(h.Model) == "" {
		return "test-model"
	}
	return h.Model
}

func (h *Handler) models(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object": "list",
		"data":   []map[string]any{{"id": h.model(), "object": "model"}},
	})
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	h.mu.Lock()
	h.requests = append(h.requests, req)
	h.mu.Unlock()

	if h.Status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(h.Status)
		_, _ = fmt.Fprintf(w, `{"error":{"message":"stub status %d","type":"server_error"}}`, h.Status)
		return
	}
	if h.Delay > 0 {
		select {
		case <-time.After(h.Delay):
		case <-r.Context().Done():
			return
		}
	}

	prompt := ""
	if n := len(req.Messages); n > 0 {
		prompt = req.Messages[n-1].Content
	}
	content := DefaultContent
	if h.Content != nil {
		content = h.Content(prompt)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, _ := w.(http.Flusher)
	for i, chunk := range split(content, h.ChunkSize) {
		if h.BreakAfter > 0 && i == h.BreakAfter {
			_, _ = fmt.Fprint(w, "data: {not json\n\n")
			if flusher != nil {
				flusher.Flush()
			}
			return
		}
		writeEvent(w, h.model(), chunk)
		if flusher != nil {
			flusher.Flush()
		}
	}
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
}

func writeEvent(w http.ResponseWriter, model, delta string) {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-stub",
		"object":  "chat.completion.chunk",
		"created": 0,
		"model":   model,
		"choices": []map[string]any{{
			"index": 0,
			"delta": map[string]string{"role": "assistant", "content": delta},
		}},
	})
	_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
}

func split(s string, size int) []string {
	if size <= 0 || len(s) <= size {
		return []string{s}
	}
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
