package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tinyceo-backend/internal/config"
	"tinyceo-backend/internal/models"
	"tinyceo-backend/pkg/textutil"
)

// Options tunes every completion the Service issues.
type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // Per call; zero means no extra deadline
}

// Service is the single entry point for LLM work. With a nil Completer it
// runs in fallback mode and never calls out.
type Service struct {
	completer Completer
	fallback  *Fallback
	opts      Options
	logger    *zap.Logger
}

// NewService wires a Service. completer may be nil.
func NewService(completer Completer, fallback *Fallback, opts Options, logger *zap.Logger) *Service {
	if fallback == nil {
		fallback = NewFallback(nil)
	}
	return &Service{
		completer: completer,
		fallback:  fallback,
		opts:      opts,
		logger:    logger.Named("ai"),
	}
}

// NewCompleterFromConfig picks the provider named in cfg. It returns nil
// (fallback mode) when the provider is "fallback" or its API key is missing.
func NewCompleterFromConfig(cfg config.AIConfig, logger *zap.Logger) Completer {
	var c Completer
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			c = NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		}
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey != "" {
			c = NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.AnthropicModel, "")
		}
	case config.ProviderGemini:
		if cfg.GeminiAPIKey != "" {
			c = NewGeminiCompleter(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
		}
	}
	if c == nil {
		logger.Warn("No AI API key configured, using fallback mode", zap.String("provider", cfg.Provider))
		return nil
	}
	logger.Info("AI client initialized", zap.String("provider", c.Name()))
	return c
}

// Provider names the active backend.
func (s *Service) Provider() string {
	if s.completer == nil {
		return config.ProviderFallback
	}
	return s.completer.Name()
}

// Fallback exposes the scripted responder used when the LLM is unavailable.
func (s *Service) Fallback() *Fallback { return s.fallback }

func (s *Service) complete(ctx context.Context, system, prompt string) (string, error) {
	if s.completer == nil {
		return "", ErrAIUnavailable
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return s.completer.Complete(ctx, CompletionRequest{
		System:      system,
		Prompt:      prompt,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
}

// ConversationReply answers a founder's chat message. It never fails: LLM
// errors fall back to the scripted replies.
func (s *Service) ConversationReply(ctx context.Context, userMessage string, cc ConversationContext) string {
	reply, err := s.complete(ctx, ConversationSystemPrompt, conversationPrompt(userMessage, cc))
	if err != nil {
		if !errors.Is(err, ErrAIUnavailable) {
			s.logger.Error("AI completion failed, falling back to scripted reply", zap.Error(err))
		}
		return s.fallback.ConversationReply(cc)
	}
	return reply
}

// AgentAnalysis asks the LLM for an advisor report and returns it as a JSON
// object. Callers fall back to their template on any error.
func (s *Service) AgentAnalysis(ctx context.Context, agentType models.AgentType, input any, instructions string) (json.RawMessage, error) {
	reply, err := s.complete(ctx, SystemPrompt(agentType), agentAnalysisPrompt(input, instructions))
	if err != nil {
		return nil, err
	}

	cleaned := StripCodeFence(reply)
	if !gjson.Valid(cleaned) || !gjson.Parse(cleaned).IsObject() {
		s.logger.Error("Failed to parse AI response as JSON",
			zap.String("agent", string(agentType)),
			zap.String("response", textutil.Truncate(reply, 200)))
		return nil, fmt.Errorf("%s: %w", agentType, ErrInvalidJSON)
	}
	return json.RawMessage(cleaned), nil
}

// ChatReply answers a question put to an advisor. In fallback mode, or when
// the LLM fails, it returns topic-based canned advice.
func (s *Service) ChatReply(ctx context.Context, agentType models.AgentType, userMessage string, chatContext any, ac AdviceContext) string {
	reply, err := s.complete(ctx, SystemPrompt(agentType), chatPrompt(userMessage, chatContext))
	if err != nil {
		if !errors.Is(err, ErrAIUnavailable) {
			s.logger.Error("AI chat failed, using canned advice",
				zap.String("agent", string(agentType)), zap.Error(err))
		}
		return s.fallback.Advice(userMessage, ac)
	}
	return reply
}

// StripCodeFence removes a surrounding markdown code fence (``` or ```json).
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
