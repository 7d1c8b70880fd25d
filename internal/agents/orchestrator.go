package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
	"tinyceo-backend/pkg/textutil"
)

// ErrUnknownAgent is returned for an agent type that has no advisor.
var ErrUnknownAgent = errors.New("unknown agent type")

// LLM is everything the advisors need from the AI layer. *ai.Service satisfies it.
type LLM interface {
	ReportGenerator
	ChatReply(ctx context.Context, agentType models.AgentType, userMessage string, chatContext any, ac ai.AdviceContext) string
}

// ErrorOutput is stored in place of a report when an advisor fails.
type ErrorOutput struct {
	Error    bool           `json:"error"`
	Message  string         `json:"message"`
	Details  string         `json:"details"`
	Fallback FallbackReport `json:"fallback"`
}

// FallbackReport is the short placeholder shown for a failed advisor.
type FallbackReport struct {
	Summary string `json:"summary"`
}

var fallbackSubjects = map[models.AgentType]string{
	models.AgentCEO:       "Strategic",
	models.AgentDeveloper: "Technical",
	models.AgentFinance:   "Financial",
	models.AgentMarketing: "Marketing",
	models.AgentSales:     "Sales",
	models.AgentOverview:  "Overview",
}

// Orchestrator runs the advisors. The five functional advisors run
// concurrently; the overview advisor runs after them on their reports.
type Orchestrator struct {
	agents map[models.AgentType]Agent
	llm    LLM
	logger *zap.Logger
}

// NewOrchestrator registers the six advisors on top of llm.
func NewOrchestrator(llm LLM, logger *zap.Logger) *Orchestrator {
	return NewOrchestratorWith(llm, logger,
		NewCEO(llm, logger),
		NewDeveloper(llm, logger),
		NewFinance(llm, logger),
		NewMarketing(llm, logger),
		NewSales(llm, logger),
		NewOverview(llm, logger),
	)
}

// NewOrchestratorWith builds an orchestrator over a custom set of advisors.
func NewOrchestratorWith(llm LLM, logger *zap.Logger, agents ...Agent) *Orchestrator {
	o := &Orchestrator{
		agents: make(map[models.AgentType]Agent, len(agents)),
		llm:    llm,
		logger: logger.Named("orchestrator"),
	}
	for _, a := range agents {
		o.agents[a.Type()] = a
	}
	return o
}

// Agent looks up the advisor for t.
func (o *Orchestrator) Agent(t models.AgentType) (Agent, bool) {
	a, ok := o.agents[t]
	return a, ok
}

// GenerateAll produces a report from every advisor. A failing advisor gets
// an ErrorOutput instead of aborting the run; only a done context fails it.
func (o *Orchestrator) GenerateAll(ctx context.Context, a analysis.ConversationAnalysis) (map[models.AgentType]json.RawMessage, error) {
	o.logger.Info("Orchestrating agent analysis",
		zap.String("industry", a.Industry),
		zap.Int("agent_count", len(o.agents)))

	var primary []models.AgentType
	for _, t := range models.AgentTypes {
		if _, ok := o.agents[t]; ok && t != models.AgentOverview {
			primary = append(primary, t)
		}
	}

	results := make([]json.RawMessage, len(primary))
	var g errgroup.Group
	for i, t := range primary {
		g.Go(func() error {
			out, err := o.analyze(ctx, t, Input{Analysis: a})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				out = o.errorOutput(t, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate agent outputs: %w", err)
	}

	outputs := make(map[models.AgentType]json.RawMessage, len(primary)+1)
	for i, t := range primary {
		outputs[t] = results[i]
	}

	if _, ok := o.agents[models.AgentOverview]; ok {
		peers := make(map[models.AgentType]json.RawMessage, len(outputs))
		for t, out := range outputs {
			peers[t] = out
		}
		out, err := o.analyze(ctx, models.AgentOverview, Input{Analysis: a, Outputs: peers})
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("generate overview: %w", ctx.Err())
			}
			out = o.errorOutput(models.AgentOverview, err)
		}
		outputs[models.AgentOverview] = out
	}

	o.logger.Info("All agents completed analysis")
	return outputs, nil
}

// Regenerate produces a fresh report from one advisor. existing holds the
// stored reports and is only used by the overview advisor.
func (o *Orchestrator) Regenerate(ctx context.Context, t models.AgentType, a analysis.ConversationAnalysis, existing map[models.AgentType]json.RawMessage) (json.RawMessage, error) {
	if _, ok := o.agents[t]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, t)
	}
	o.logger.Info("Regenerating agent", zap.String("agent", string(t)))

	in := Input{Analysis: a}
	if t == models.AgentOverview {
		in.Outputs = make(map[models.AgentType]json.RawMessage, len(existing))
		for peer, out := range existing {
			if peer != models.AgentOverview {
				in.Outputs[peer] = out
			}
		}
	}

	out, err := o.analyze(ctx, t, in)
	if err != nil {
		o.logger.Error("Failed to regenerate agent", zap.String("agent", string(t)), zap.Error(err))
		return nil, fmt.Errorf("regenerate %s: %w", t, err)
	}
	return out, nil
}

// Chat answers a question put to one advisor. report is the advisor's stored
// report (may be nil) and is sent as context together with the conversation.
func (o *Orchestrator) Chat(ctx context.Context, t models.AgentType, message string, report json.RawMessage, conversation []models.ConversationMessage, ac ai.AdviceContext) (models.AgentChatResponse, error) {
	agent, ok := o.agents[t]
	if !ok {
		return models.AgentChatResponse{}, fmt.Errorf("%w: %s", ErrUnknownAgent, t)
	}
	o.logger.Info("Agent chat", zap.String("agent", string(t)), zap.String("message", textutil.Truncate(message, 50)))

	chatContext := map[string]any{}
	if len(report) > 0 {
		if err := json.Unmarshal(report, &chatContext); err != nil {
			o.logger.Warn("Stored report is not an object, chatting without it", zap.String("agent", string(t)), zap.Error(err))
			chatContext = map[string]any{}
		}
	}
	if conversation != nil {
		chatContext["conversation"] = conversation
	}

	reply := o.llm.ChatReply(ctx, t, message, chatContext, ac)
	if strings.TrimSpace(reply) == "" {
		reply = ai.ChatApology(message)
	}

	return models.AgentChatResponse{
		Response: reply,
		Agent:    agent.Name(),
		Role:     agent.Role(),
	}, nil
}

// Status lists the registered advisors in generation order.
func (o *Orchestrator) Status() []models.AgentStatus {
	out := make([]models.AgentStatus, 0, len(o.agents))
	for _, t := range models.AgentTypes {
		a, ok := o.agents[t]
		if !ok {
			continue
		}
		out = append(out, models.AgentStatus{
			Type:         t,
			Name:         a.Name(),
			Role:         a.Role(),
			Capabilities: a.Capabilities(),
			Status:       "ready",
		})
	}
	return out
}

// analyze runs one advisor, turning a panic into an error.
func (o *Orchestrator) analyze(ctx context.Context, t models.AgentType, in Input) (out json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s agent panicked: %v", t, r)
		}
	}()
	return o.agents[t].Analyze(ctx, in)
}

func (o *Orchestrator) errorOutput(t models.AgentType, cause error) json.RawMessage {
	o.logger.Error("Agent failed", zap.String("agent", string(t)), zap.Error(cause))

	subject, ok := fallbackSubjects[t]
	summary := "Analysis unavailable"
	if ok {
		summary = subject + " analysis temporarily unavailable. Please try regenerating."
	}
	b, _ := json.Marshal(ErrorOutput{
		Error:    true,
		Message:  fmt.Sprintf("Failed to generate %s insights", t),
		Details:  cause.Error(),
		Fallback: FallbackReport{Summary: summary},
	})
	return b
}
