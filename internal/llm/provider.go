package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed to stream a chat completion from an
// OpenAI-compatible backend. *openai.Client satisfies it.
type Client interface {
	CreateChatCompletionStream(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

// ModelLister is an optional capability that allows listing available models.
// Providers that do not support this can omit it; callers should use a type
// assertion to detect availability.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// NewOpenAIClient builds a client for baseURL. An empty baseURL keeps the
// library default; a nil httpClient keeps the library transport.
func NewOpenAIClient(baseURL, apiKey string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// CollectStream sends request as a streamed completion and concatenates the
// first choice's deltas in arrival order. If the stream fails before it
// ends, the text received so far is discarded and the error returned.
func CollectStream(ctx context.Context, c Client, request openai.ChatCompletionRequest) (string, error) {
	if c == nil {
		return "", errors.New("llm client not configured")
	}
	request.Stream = true
	stream, err := c.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return "", fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("stream recv: %w", err)
		}
		if len(resp.Choices) > 0 {
			sb.WriteString(resp.Choices[0].Delta.Content)
		}
	}
}
