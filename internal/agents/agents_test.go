package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
)

// fakeLLM records what it is asked and answers from canned replies.
type fakeLLM struct {
	mu        sync.Mutex
	reports   map[models.AgentType]string
	reportErr error
	inputs    map[models.AgentType]any
	chatReply string
	chatCtx   any
	chatAdv   ai.AdviceContext
}

func (f *fakeLLM) AgentAnalysis(ctx context.Context, t models.AgentType, input any, instructions string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inputs == nil {
		f.inputs = map[models.AgentType]any{}
	}
	f.inputs[t] = input
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	if r, ok := f.reports[t]; ok {
		return json.RawMessage(r), nil
	}
	return nil, ai.ErrAIUnavailable
}

func (f *fakeLLM) ChatReply(ctx context.Context, t models.AgentType, msg string, chatContext any, ac ai.AdviceContext) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCtx = chatContext
	f.chatAdv = ac
	return f.chatReply
}

// stubAgent fails or panics on demand.
type stubAgent struct {
	t     models.AgentType
	err   error
	panic bool
}

func (s stubAgent) Type() models.AgentType { return s.t }
func (s stubAgent) Name() string           { return "Stub" }
func (s stubAgent) Role() string           { return "Stub Role" }
func (s stubAgent) Capabilities() []string { return nil }
func (s stubAgent) Analyze(ctx context.Context, in Input) (json.RawMessage, error) {
	if s.panic {
		panic("boom")
	}
	return nil, s.err
}

func invoicingAnalysis() analysis.ConversationAnalysis {
	return analysis.ConversationAnalysis{
		FullText:       "We build an invoicing platform for freelancers",
		Problem:        "Freelancers lose hours every month chasing unpaid invoices",
		Solution:       "An invoicing platform that automates reminders",
		TargetAudience: "Small businesses",
		Industry:       "fintech",
		BusinessModel:  "Subscription-based (SaaS)",
		UniqueValue:    "Automated workflow and efficiency",
		Keywords:       []string{"invoices", "freelancers"},
	}
}

func fallbackService() *ai.Service {
	return ai.NewService(nil, ai.NewFallback(nil), ai.Options{}, zap.NewNop())
}

func TestGenerateAll_TemplatesInFallbackMode(t *testing.T) {
	o := NewOrchestrator(fallbackService(), zap.NewNop())

	outputs, err := o.GenerateAll(context.Background(), invoicingAnalysis())
	require.NoError(t, err)
	require.Len(t, outputs, len(models.AgentTypes))

	for _, at := range models.AgentTypes {
		raw, ok := outputs[at]
		require.True(t, ok, at)
		require.True(t, gjson.ValidBytes(raw), at)
		assert.False(t, gjson.GetBytes(raw, "error").Bool(), at)
	}

	ceo := outputs[models.AgentCEO]
	assert.Equal(t, "Established fintech Leader", gjson.GetBytes(ceo, "competitive_analysis.0.competitor").String())
	assert.Equal(t, "Seed round: $750K - $1.5M", gjson.GetBytes(ceo, "fundraising.recommended_round").String())
	assert.Len(t, gjson.GetBytes(ceo, "key_metrics").Array(), 6)

	dev := outputs[models.AgentDeveloper]
	assert.Equal(t, ProductWebApp, gjson.GetBytes(dev, "product_type").String())
	assert.EqualValues(t, 10, gjson.GetBytes(dev, "timeline.total_weeks").Int())
	assert.Equal(t, "Core Value Feature: An invoicing platform that automates reminders",
		gjson.GetBytes(dev, "mvp_features.1.feature").String())

	fin := outputs[models.AgentFinance]
	assert.Equal(t, "8.3:1", gjson.GetBytes(fin, "unit_economics.ltv_to_cac_ratio.ratio").String())
	assert.EqualValues(t, 744, gjson.GetBytes(fin, "breakeven.customers_needed").Int())
	assert.Equal(t, "$36,667", gjson.GetBytes(fin, "breakeven.mrr_target").String())
	assert.Equal(t, "$17,400", gjson.GetBytes(fin, "revenue_projections.year_1.realistic.mrr").String())

	mkt := outputs[models.AgentMarketing]
	assert.Contains(t, gjson.GetBytes(mkt, "market_analysis.market_size.tam").String(), "$300B")

	ov := outputs[models.AgentOverview]
	assert.EqualValues(t, 100, gjson.GetBytes(ov, "opportunity_score.overall_score").Int())
	assert.Equal(t, "Exceptional Opportunity", gjson.GetBytes(ov, "opportunity_score.verdict").String())
	assert.Equal(t, "$208,800", gjson.GetBytes(ov, "executive_summary.financial_highlights.year_1_arr").String())
}

func TestGenerateAll_UsesLLMReports(t *testing.T) {
	llm := &fakeLLM{reports: map[models.AgentType]string{}}
	for _, at := range models.AgentTypes {
		llm.reports[at] = fmt.Sprintf(`{"summary":"llm %s"}`, at)
	}
	o := NewOrchestrator(llm, zap.NewNop())

	outputs, err := o.GenerateAll(context.Background(), invoicingAnalysis())
	require.NoError(t, err)
	for _, at := range models.AgentTypes {
		assert.JSONEq(t, llm.reports[at], string(outputs[at]))
	}

	// The overview advisor sees the analysis and all five peer reports.
	in, err := json.Marshal(llm.inputs[models.AgentOverview])
	require.NoError(t, err)
	assert.Equal(t, "fintech", gjson.GetBytes(in, "industry").String())
	peers := gjson.GetBytes(in, "agent_outputs").Map()
	assert.Len(t, peers, 5)
	assert.Equal(t, "llm sales", peers["sales"].Get("summary").String())
}

func TestGenerateAll_LLMErrorFallsBackToTemplate(t *testing.T) {
	llm := &fakeLLM{reportErr: fmt.Errorf("ceo: %w", ai.ErrInvalidJSON)}
	o := NewOrchestrator(llm, zap.NewNop())

	outputs, err := o.GenerateAll(context.Background(), invoicingAnalysis())
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(outputs[models.AgentCEO], "competitive_analysis").IsArray())
}

func TestGenerateAll_FailingAgentsGetErrorOutput(t *testing.T) {
	llm := &fakeLLM{}
	logger := zap.NewNop()
	o := NewOrchestratorWith(llm, logger,
		NewCEO(llm, logger),
		NewDeveloper(llm, logger),
		NewFinance(llm, logger),
		stubAgent{t: models.AgentMarketing, panic: true},
		stubAgent{t: models.AgentSales, err: errors.New("quota exceeded")},
		NewOverview(llm, logger),
	)

	outputs, err := o.GenerateAll(context.Background(), invoicingAnalysis())
	require.NoError(t, err)

	sales := outputs[models.AgentSales]
	assert.True(t, gjson.GetBytes(sales, "error").Bool())
	assert.Equal(t, "Failed to generate sales insights", gjson.GetBytes(sales, "message").String())
	assert.Equal(t, "quota exceeded", gjson.GetBytes(sales, "details").String())
	assert.Equal(t, "Sales analysis temporarily unavailable. Please try regenerating.",
		gjson.GetBytes(sales, "fallback.summary").String())

	marketing := outputs[models.AgentMarketing]
	assert.True(t, gjson.GetBytes(marketing, "error").Bool())
	assert.Contains(t, gjson.GetBytes(marketing, "details").String(), "panicked")

	// The overview still runs, without the failed reports' data.
	assert.True(t, gjson.GetBytes(outputs[models.AgentOverview], "opportunity_score").Exists())
}

func TestGenerateAll_CanceledContext(t *testing.T) {
	o := NewOrchestrator(fallbackService(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.GenerateAll(ctx, invoicingAnalysis())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegenerate(t *testing.T) {
	llm := &fakeLLM{reports: map[models.AgentType]string{models.AgentOverview: `{"summary":"fresh"}`}}
	o := NewOrchestrator(llm, zap.NewNop())
	ctx := context.Background()

	_, err := o.Regenerate(ctx, "cfo", invoicingAnalysis(), nil)
	assert.ErrorIs(t, err, ErrUnknownAgent)

	existing := map[models.AgentType]json.RawMessage{
		models.AgentFinance:  json.RawMessage(`{"breakeven":{"timeline":"Month 9"}}`),
		models.AgentOverview: json.RawMessage(`{"summary":"stale"}`),
	}
	out, err := o.Regenerate(ctx, models.AgentOverview, invoicingAnalysis(), existing)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"fresh"}`, string(out))

	in, err := json.Marshal(llm.inputs[models.AgentOverview])
	require.NoError(t, err)
	peers := gjson.GetBytes(in, "agent_outputs").Map()
	assert.Len(t, peers, 1)
	assert.Contains(t, peers, "finance")

	out, err = o.Regenerate(ctx, models.AgentDeveloper, invoicingAnalysis(), existing)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(out, "tech_stack").Exists())
}

func TestChat(t *testing.T) {
	ctx := context.Background()
	conversation := []models.ConversationMessage{{Role: models.RoleUser, Content: "We sell to freelancers"}}
	ac := ai.AdviceContext{Industry: "fintech", TargetAudience: "Freelancers"}

	t.Run("passes report and conversation as context", func(t *testing.T) {
		llm := &fakeLLM{chatReply: "Charge $29 to start."}
		o := NewOrchestrator(llm, zap.NewNop())

		resp, err := o.Chat(ctx, models.AgentFinance, "How should I price?", json.RawMessage(`{"pricing":{"strategy":"tiered"}}`), conversation, ac)
		require.NoError(t, err)
		assert.Equal(t, models.AgentChatResponse{
			Response: "Charge $29 to start.",
			Agent:    "Finance",
			Role:     "Chief Financial Officer & Financial Analyst",
		}, resp)

		raw, err := json.Marshal(llm.chatCtx)
		require.NoError(t, err)
		assert.Equal(t, "tiered", gjson.GetBytes(raw, "pricing.strategy").String())
		assert.Equal(t, "We sell to freelancers", gjson.GetBytes(raw, "conversation.0.content").String())
		assert.Equal(t, ac, llm.chatAdv)
	})

	t.Run("empty reply becomes an apology", func(t *testing.T) {
		o := NewOrchestrator(&fakeLLM{chatReply: "  "}, zap.NewNop())
		resp, err := o.Chat(ctx, models.AgentCEO, "Should I raise?", nil, nil, ac)
		require.NoError(t, err)
		assert.Equal(t, ai.ChatApology("Should I raise?"), resp.Response)
		assert.Equal(t, "CEO", resp.Agent)
	})

	t.Run("unknown agent", func(t *testing.T) {
		o := NewOrchestrator(&fakeLLM{}, zap.NewNop())
		_, err := o.Chat(ctx, "intern", "hi", nil, nil, ac)
		assert.ErrorIs(t, err, ErrUnknownAgent)
	})
}

func TestStatus(t *testing.T) {
	o := NewOrchestrator(fallbackService(), zap.NewNop())

	status := o.Status()
	require.Len(t, status, len(models.AgentTypes))
	for i, s := range status {
		assert.Equal(t, models.AgentTypes[i], s.Type)
		assert.Equal(t, "ready", s.Status)
		assert.Len(t, s.Capabilities, 6)
	}
	assert.Equal(t, "Executive Advisor & Strategy Synthesizer", status[5].Role)
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, "AI/ML", ProfileFor("ai").Name)
	assert.Equal(t, "FinTech", ProfileFor(" FinTech ").Name)
	assert.Equal(t, "B2B SaaS", ProfileFor("Technology").Name)
}
