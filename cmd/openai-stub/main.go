package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/finextract/internal/llm/stub"
)

// openai-stub serves a streaming OpenAI-compatible API that always answers
// with the same financial record, for offline runs of finextract.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	h := &stub.Handler{Model: model}
	if content := os.Getenv("STUB_CONTENT"); strings.TrimSpace(content) != "" {
		h.Content = func(string) string { return content }
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	log.Info().Str("addr", addr).Str("model", model).Msg("openai stub listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
