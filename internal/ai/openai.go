package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompleter calls the chat completions API. Any OpenAI-compatible
// endpoint works, which is how Gemini is reached as well.
type OpenAICompleter struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAICompleter creates a completer for api.openai.com, or for baseURL when set.
func NewOpenAICompleter(apiKey, model, baseURL string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "openai",
	}
}

// NewGeminiCompleter uses Gemini's OpenAI-compatible endpoint.
func NewGeminiCompleter(apiKey, model, baseURL string) *OpenAICompleter {
	c := NewOpenAICompleter(apiKey, model, baseURL)
	c.name = "gemini"
	return c
}

func (c *OpenAICompleter) Name() string { return c.name }

func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", c.name, ErrEmptyCompletion)
	}
	return nonEmpty(c.name, resp.Choices[0].Message.Content)
}
