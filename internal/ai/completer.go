// Package ai talks to the configured LLM provider and supplies scripted
// replies whenever no provider is configured or a call fails.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAIUnavailable means no LLM provider is configured.
	ErrAIUnavailable = errors.New("ai provider unavailable")
	// ErrEmptyCompletion is returned when a provider answers with no text.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrInvalidJSON is returned when an advisor reply cannot be parsed as a JSON object.
	ErrInvalidJSON = errors.New("completion is not a valid JSON object")
)

// CompletionRequest is a single-turn prompt with an optional system prompt.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer sends one prompt to an LLM and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

func (f CompleterFunc) Name() string { return "func" }

func nonEmpty(provider, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrEmptyCompletion)
	}
	return text, nil
}
