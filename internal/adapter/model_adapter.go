package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the endpoint answers without usable
// content.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// ModelAdapter abstracts the inference endpoint. One prompt in, one text
// completion out; the call blocks until the endpoint answers or ctx is done.
type ModelAdapter interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
	Endpoint() string
}

// OpenAIModelAdapter talks to any OpenAI-compatible endpoint. Local Ollama
// servers expose this API under /v1, which is the default target.
type OpenAIModelAdapter struct {
	client   *openai.Client
	model    string
	endpoint string
}

// NewOpenAIModelAdapter constructs an adapter for the given endpoint and
// model identifier. Local servers ignore the API key but the client
// requires one, so a placeholder is used.
func NewOpenAIModelAdapter(endpoint, model string) *OpenAIModelAdapter {
	cfg := openai.DefaultConfig("testforge")
	cfg.BaseURL = endpoint

	return &OpenAIModelAdapter{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		endpoint: endpoint,
	}
}

// Complete sends one chat completion request and returns the raw text.
func (a *OpenAIModelAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	slog.Debug("Requesting completion", "endpoint", a.endpoint, "model", a.model, "promptLen", len(prompt))

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	slog.Debug("Received completion", "finishReason", resp.Choices[0].FinishReason)

	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (a *OpenAIModelAdapter) Model() string {
	return a.model
}

// Endpoint returns the configured endpoint URL.
func (a *OpenAIModelAdapter) Endpoint() string {
	return a.endpoint
}
