// Package agents holds the six startup advisors and the orchestrator that runs
// them over a conversation analysis. Every advisor first asks the LLM for a
// JSON report and falls back to a deterministic template when that fails.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
)

// Input is what an advisor works from. Outputs holds the reports of the other
// advisors and is only read by the overview advisor.
type Input struct {
	Analysis analysis.ConversationAnalysis
	Outputs  map[models.AgentType]json.RawMessage
}

// Agent is a single advisor.
type Agent interface {
	Type() models.AgentType
	Name() string
	Role() string
	Capabilities() []string
	Analyze(ctx context.Context, in Input) (json.RawMessage, error)
}

// ReportGenerator produces an advisor report through the LLM. *ai.Service
// satisfies it.
type ReportGenerator interface {
	AgentAnalysis(ctx context.Context, agentType models.AgentType, input any, instructions string) (json.RawMessage, error)
}

// advisor implements Agent on top of a ReportGenerator and a template.
type advisor struct {
	agentType    models.AgentType
	name         string
	role         string
	capabilities []string
	instructions string

	// promptInput builds the data sent to the LLM; nil sends the analysis.
	promptInput func(Input) any
	template    func(Input) any

	reports ReportGenerator
	logger  *zap.Logger
}

func (a *advisor) Type() models.AgentType { return a.agentType }
func (a *advisor) Name() string           { return a.name }
func (a *advisor) Role() string           { return a.role }

func (a *advisor) Capabilities() []string {
	out := make([]string, len(a.capabilities))
	copy(out, a.capabilities)
	return out
}

// Analyze returns the LLM report, or the template report when the LLM is
// unavailable or returns something unusable. It only fails when the context
// is done.
func (a *advisor) Analyze(ctx context.Context, in Input) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.logger.Info("Starting analysis", zap.String("industry", in.Analysis.Industry))

	if a.reports != nil {
		input := any(in.Analysis)
		if a.promptInput != nil {
			input = a.promptInput(in)
		}

		raw, err := a.reports.AgentAnalysis(ctx, a.agentType, input, a.instructions)
		if err == nil {
			a.logger.Info("Analysis completed")
			return raw, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, ai.ErrAIUnavailable) {
			a.logger.Warn("AI analysis failed, using template", zap.Error(err))
		}
	}

	return a.templateReport(in)
}

func (a *advisor) templateReport(in Input) (json.RawMessage, error) {
	b, err := json.Marshal(a.template(in))
	if err != nil {
		return nil, fmt.Errorf("marshal %s template: %w", a.agentType, err)
	}
	return b, nil
}

func newAdvisor(t models.AgentType, name, role string, capabilities []string, reports ReportGenerator, logger *zap.Logger) *advisor {
	return &advisor{
		agentType:    t,
		name:         name,
		role:         role,
		capabilities: capabilities,
		reports:      reports,
		logger:       logger.Named(string(t)),
	}
}
