package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyceo-backend/internal/agents"
	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

var (
	ErrConversationNotReady = errors.New("conversation not ready for analysis")
	ErrInvalidAgentType     = errors.New("invalid agent type")
)

const maxAgentChatLength = 2000

// NotReadyError is returned by GenerateAgents when the maturity gate fails.
// It matches ErrConversationNotReady.
type NotReadyError struct {
	Maturity analysis.MaturityAssessment
}

func (e *NotReadyError) Error() string {
	return "Conversation needs more details. " + e.Maturity.Recommendation
}

func (e *NotReadyError) Unwrap() error { return ErrConversationNotReady }

// AgentRunner drives the advisors. *agents.Orchestrator satisfies it.
type AgentRunner interface {
	GenerateAll(ctx context.Context, a analysis.ConversationAnalysis) (map[models.AgentType]json.RawMessage, error)
	Regenerate(ctx context.Context, t models.AgentType, a analysis.ConversationAnalysis, existing map[models.AgentType]json.RawMessage) (json.RawMessage, error)
	Chat(ctx context.Context, t models.AgentType, message string, report json.RawMessage, conversation []models.ConversationMessage, ac ai.AdviceContext) (models.AgentChatResponse, error)
	Status() []models.AgentStatus
}

// AgentService generates, stores and discusses advisor reports.
type AgentService struct {
	store  store.Store
	runner AgentRunner
	logger *zap.Logger
}

func NewAgentService(s store.Store, runner AgentRunner, logger *zap.Logger) *AgentService {
	return &AgentService{
		store:  s,
		runner: runner,
		logger: logger.Named("agents"),
	}
}

func parseAgentType(raw string) (models.AgentType, error) {
	t := models.AgentType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAgentType, raw)
	}
	return t, nil
}

func (s *AgentService) analyzeWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (analysis.ConversationAnalysis, error) {
	messages, err := loadMessages(ctx, s.store, userID, workspaceID)
	if err != nil {
		return analysis.ConversationAnalysis{}, err
	}
	if len(messages) == 0 {
		return analysis.ConversationAnalysis{}, ErrNoConversation
	}
	a, err := analysis.Analyze(messages)
	if err != nil {
		return analysis.ConversationAnalysis{}, fmt.Errorf("analyzing conversation: %w", err)
	}
	return a, nil
}

// GenerateAgents runs every advisor on a mature conversation and replaces the
// stored reports of the workspace.
func (s *AgentService) GenerateAgents(ctx context.Context, userID, workspaceID uuid.UUID) error {
	messages, err := loadMessages(ctx, s.store, userID, workspaceID)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return ErrNoConversation
	}

	maturity := analysis.AssessMaturity(messages)
	if !maturity.IsReady {
		return &NotReadyError{Maturity: maturity}
	}

	a, err := analysis.Analyze(messages)
	if err != nil {
		return fmt.Errorf("analyzing conversation: %w", err)
	}

	s.logger.Info("Generating agent outputs",
		zap.String("workspace_id", workspaceID.String()),
		zap.String("industry", a.Industry))

	results, err := s.runner.GenerateAll(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to generate agent outputs: %w", err)
	}

	outputs := make([]models.AgentOutput, 0, len(results))
	for _, t := range models.AgentTypes {
		if out, ok := results[t]; ok {
			outputs = append(outputs, models.AgentOutput{
				WorkspaceID: workspaceID,
				AgentType:   t,
				OutputData:  out,
			})
		}
	}
	if err := s.store.ReplaceAgentOutputs(ctx, workspaceID, outputs); err != nil {
		return fmt.Errorf("failed to save agent outputs: %w", err)
	}
	return nil
}

// ListOutputs returns the stored reports in generation order.
func (s *AgentService) ListOutputs(ctx context.Context, userID, workspaceID uuid.UUID) ([]models.AgentOutput, error) {
	if _, err := ownedWorkspace(ctx, s.store, userID, workspaceID); err != nil {
		return nil, err
	}
	outputs, err := s.store.ListAgentOutputs(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent outputs: %w", err)
	}
	return outputs, nil
}

func (s *AgentService) outputsByType(ctx context.Context, workspaceID uuid.UUID) (map[models.AgentType]json.RawMessage, error) {
	outputs, err := s.store.ListAgentOutputs(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent outputs: %w", err)
	}
	byType := make(map[models.AgentType]json.RawMessage, len(outputs))
	for _, o := range outputs {
		byType[o.AgentType] = o.OutputData
	}
	return byType, nil
}

// RegenerateAgent replaces one advisor's report with a fresh one.
func (s *AgentService) RegenerateAgent(ctx context.Context, userID, workspaceID uuid.UUID, agentType string) (json.RawMessage, error) {
	t, err := parseAgentType(agentType)
	if err != nil {
		return nil, err
	}
	a, err := s.analyzeWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	existing, err := s.outputsByType(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	out, err := s.runner.Regenerate(ctx, t, a, existing)
	if err != nil {
		if errors.Is(err, agents.ErrUnknownAgent) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAgentType, t)
		}
		return nil, fmt.Errorf("failed to regenerate %s: %w", t, err)
	}

	if err := s.store.UpsertAgentOutput(ctx, &models.AgentOutput{
		WorkspaceID: workspaceID,
		AgentType:   t,
		OutputData:  out,
	}); err != nil {
		return nil, fmt.Errorf("failed to save %s output: %w", t, err)
	}
	return out, nil
}

// ChatWithAgent asks one advisor a question about the workspace and records
// the exchange.
func (s *AgentService) ChatWithAgent(ctx context.Context, userID, workspaceID uuid.UUID, agentType, message string) (models.AgentChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return models.AgentChatResponse{}, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if utf8.RuneCountInString(message) >= maxAgentChatLength {
		return models.AgentChatResponse{}, fmt.Errorf("%w: message must be less than %d characters", ErrValidation, maxAgentChatLength)
	}
	t, err := parseAgentType(agentType)
	if err != nil {
		return models.AgentChatResponse{}, err
	}

	messages, err := loadMessages(ctx, s.store, userID, workspaceID)
	if err != nil {
		return models.AgentChatResponse{}, err
	}
	var ac ai.AdviceContext
	if a, err := analysis.Analyze(messages); err == nil {
		ac = ai.AdviceContext{Industry: a.Industry, TargetAudience: a.TargetAudience}
	}

	existing, err := s.outputsByType(ctx, workspaceID)
	if err != nil {
		return models.AgentChatResponse{}, err
	}

	resp, err := s.runner.Chat(ctx, t, message, existing[t], messages, ac)
	if err != nil {
		if errors.Is(err, agents.ErrUnknownAgent) {
			return models.AgentChatResponse{}, fmt.Errorf("%w: %s", ErrInvalidAgentType, t)
		}
		return models.AgentChatResponse{}, fmt.Errorf("agent chat failed: %w", err)
	}

	if err := s.store.CreateAgentChat(ctx, &models.AgentChat{
		WorkspaceID:   workspaceID,
		AgentType:     t,
		UserMessage:   message,
		AgentResponse: resp.Response,
	}); err != nil {
		// The answer is still useful to the caller.
		s.logger.Error("Failed to save agent chat",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("agent", string(t)),
			zap.Error(err))
	}
	return resp, nil
}

// ChatHistory lists earlier exchanges with one advisor, oldest first.
func (s *AgentService) ChatHistory(ctx context.Context, userID, workspaceID uuid.UUID, agentType string) ([]models.AgentChat, error) {
	t, err := parseAgentType(agentType)
	if err != nil {
		return nil, err
	}
	if _, err := ownedWorkspace(ctx, s.store, userID, workspaceID); err != nil {
		return nil, err
	}
	chats, err := s.store.ListAgentChats(ctx, workspaceID, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list agent chats: %w", err)
	}
	return chats, nil
}

// AgentStatus describes every registered advisor.
func (s *AgentService) AgentStatus() []models.AgentStatus {
	return s.runner.Status()
}
