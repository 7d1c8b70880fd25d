package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tinyceo-backend/internal/config"
	"tinyceo-backend/internal/models"
)

// fixedPicker always returns the same index.
type fixedPicker int

func (p fixedPicker) Intn(n int) int { return int(p) % n }

func stubCompleter(reply string, err error) CompleterFunc {
	return func(ctx context.Context, req CompletionRequest) (string, error) {
		return reply, err
	}
}

func TestBuildConversationContext(t *testing.T) {
	msgs := []models.ConversationMessage{
		{Role: models.RoleUser, Content: "We solve invoicing"},
		{Role: models.RoleAssistant, Content: "Who is your target customer?"},
		{Role: models.RoleUser, Content: "Freelancers"},
	}

	cc := BuildConversationContext(msgs)
	assert.Equal(t, ConversationContext{
		MessageCount: 2,
		HasProblem:   true,
		HasCustomers: true,
	}, cc)
}

func TestFallbackConversationReply(t *testing.T) {
	f := NewFallback(fixedPicker(2))

	tests := []struct {
		name string
		cc   ConversationContext
		want string
	}{
		{name: "first message", cc: ConversationContext{}, want: ReplyWelcome},
		{name: "ask problem", cc: ConversationContext{MessageCount: 1}, want: ReplyAskProblem},
		{name: "ask customers", cc: ConversationContext{MessageCount: 2, HasProblem: true}, want: ReplyAskCustomers},
		{name: "ask monetization", cc: ConversationContext{MessageCount: 3}, want: ReplyAskMoney},
		{name: "ask competition", cc: ConversationContext{MessageCount: 4}, want: ReplyAskCompetit},
		{name: "ready", cc: ConversationContext{MessageCount: 7}, want: ReplyReady},
		{name: "topic already covered", cc: ConversationContext{MessageCount: 1, HasProblem: true}, want: contextualReplies[2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ConversationReply(tt.cc))
		})
	}
}

func TestFallbackAdvice(t *testing.T) {
	f := NewFallback(fixedPicker(0))
	ac := AdviceContext{Industry: "fintech", TargetAudience: "Developers"}

	assert.Contains(t, f.Advice("Who is my biggest COMPETITOR?", ac), "In the fintech space")
	assert.Contains(t, f.Advice("What pricing should I use?", ac), "tiered approach")
	assert.Contains(t, f.Advice("Which technology stack?", ac), "tech stack")
	assert.Contains(t, f.Advice("Any advice?", ac), "Based on your fintech startup targeting Developers")
	assert.Contains(t, f.Advice("Any advice?", AdviceContext{}), "Based on your Technology startup targeting businesses")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("  {\"a\":1}  "))
}

func TestServiceFallbackMode(t *testing.T) {
	svc := NewService(nil, NewFallback(fixedPicker(0)), Options{MaxTokens: 100}, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, config.ProviderFallback, svc.Provider())
	assert.Equal(t, ReplyWelcome, svc.ConversationReply(ctx, "hi", ConversationContext{}))

	_, err := svc.AgentAnalysis(ctx, models.AgentCEO, map[string]string{"a": "b"}, "do it")
	assert.ErrorIs(t, err, ErrAIUnavailable)

	reply := svc.ChatReply(ctx, models.AgentFinance, "pricing?", nil, AdviceContext{})
	assert.Contains(t, reply, "tiered approach")
}

func TestServiceWithCompleter(t *testing.T) {
	ctx := context.Background()

	t.Run("passes prompts and options through", func(t *testing.T) {
		var got CompletionRequest
		c := CompleterFunc(func(ctx context.Context, req CompletionRequest) (string, error) {
			got = req
			return "Tell me more.", nil
		})
		svc := NewService(c, nil, Options{Temperature: 0.3, MaxTokens: 123}, zap.NewNop())

		reply := svc.ConversationReply(ctx, "I sell bread", ConversationContext{MessageCount: 0})
		assert.Equal(t, "Tell me more.", reply)
		assert.Equal(t, ConversationSystemPrompt, got.System)
		assert.Contains(t, got.Prompt, "User message: I sell bread")
		assert.Contains(t, got.Prompt, "message #1")
		assert.Contains(t, got.Prompt, "welcome the user warmly")
		assert.InDelta(t, 0.3, got.Temperature, 1e-9)
		assert.Equal(t, 123, got.MaxTokens)
	})

	t.Run("completion error falls back", func(t *testing.T) {
		svc := NewService(stubCompleter("", errors.New("boom")), NewFallback(fixedPicker(0)), Options{}, zap.NewNop())
		assert.Equal(t, ReplyAskProblem, svc.ConversationReply(ctx, "x", ConversationContext{MessageCount: 1}))
	})

	t.Run("agent analysis strips fences", func(t *testing.T) {
		svc := NewService(stubCompleter("```json\n{\"summary\":\"ok\"}\n```", nil), nil, Options{}, zap.NewNop())
		raw, err := svc.AgentAnalysis(ctx, models.AgentSales, struct{}{}, "")
		require.NoError(t, err)
		assert.JSONEq(t, `{"summary":"ok"}`, string(raw))
	})

	t.Run("agent analysis rejects non objects", func(t *testing.T) {
		for _, reply := range []string{"not json", `["a","b"]`, `{"broken":`} {
			svc := NewService(stubCompleter(reply, nil), nil, Options{}, zap.NewNop())
			_, err := svc.AgentAnalysis(ctx, models.AgentSales, struct{}{}, "")
			assert.ErrorIs(t, err, ErrInvalidJSON, reply)
		}
	})

	t.Run("chat uses the advisor system prompt", func(t *testing.T) {
		var got CompletionRequest
		c := CompleterFunc(func(ctx context.Context, req CompletionRequest) (string, error) {
			got = req
			return "Raise a seed round.", nil
		})
		svc := NewService(c, nil, Options{}, zap.NewNop())

		reply := svc.ChatReply(ctx, models.AgentCEO, "Should I raise?", map[string]string{"industry": "ai"}, AdviceContext{})
		assert.Equal(t, "Raise a seed round.", reply)
		assert.Equal(t, SystemPrompt(models.AgentCEO), got.System)
		assert.Contains(t, got.Prompt, "User question: Should I raise?")
		assert.Contains(t, got.Prompt, `"industry": "ai"`)
	})
}

func TestOpenAICompleter(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  hello founder  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", "gpt-test", srv.URL)
	reply, err := c.Complete(context.Background(), CompletionRequest{System: "sys", Prompt: "hi", MaxTokens: 50, Temperature: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "hello founder", reply)
	assert.Equal(t, "openai", c.Name())

	assert.Equal(t, "gpt-test", body["model"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "hi", msgs[1].(map[string]any)["content"])
}

func TestOpenAICompleter_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiCompleter("key", "gemini-test", srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.Equal(t, "gemini", c.Name())
}

func TestAnthropicCompleter(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",` +
			`"content":[{"type":"text","text":"Focus on "},{"type":"text","text":"one niche."}],` +
			`"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	c := NewAnthropicCompleter("ak-test", "claude-test", srv.URL)
	reply, err := c.Complete(context.Background(), CompletionRequest{System: "be brief", Prompt: "advice?", MaxTokens: 64, Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, "Focus on one niche.", reply)

	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 64, body["max_tokens"])
	system, ok := body["system"].([]any)
	require.True(t, ok)
	assert.Equal(t, "be brief", system[0].(map[string]any)["text"])
}

func TestNewCompleterFromConfig(t *testing.T) {
	logger := zap.NewNop()

	assert.Nil(t, NewCompleterFromConfig(config.AIConfig{Provider: config.ProviderOpenAI}, logger))
	assert.Nil(t, NewCompleterFromConfig(config.AIConfig{Provider: config.ProviderFallback, OpenAIAPIKey: "k"}, logger))

	c := NewCompleterFromConfig(config.AIConfig{Provider: config.ProviderAnthropic, AnthropicAPIKey: "k", AnthropicModel: "m"}, logger)
	require.NotNil(t, c)
	assert.Equal(t, "anthropic", c.Name())

	c = NewCompleterFromConfig(config.AIConfig{Provider: config.ProviderGemini, GeminiAPIKey: "k", GeminiModel: "m"}, logger)
	require.NotNil(t, c)
	assert.Equal(t, "gemini", c.Name())
}
