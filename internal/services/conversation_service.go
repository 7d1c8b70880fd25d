package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

// ErrNoConversation is returned when a workspace has no messages yet.
var ErrNoConversation = errors.New("no conversation found for this workspace")

const maxMessageLength = 5000

// ConversationResponder produces the assistant side of the founder conversation.
// *ai.Service satisfies it.
type ConversationResponder interface {
	ConversationReply(ctx context.Context, userMessage string, cc ai.ConversationContext) string
}

// ConversationInsights is an analysis plus its pitch summary and quick score.
type ConversationInsights struct {
	analysis.ConversationAnalysis
	Summary          analysis.Summary `json:"summary"`
	OpportunityScore int              `json:"opportunity_score"`
	AnalyzedAt       time.Time        `json:"analyzed_at"`
}

// ConversationService runs the founder conversation of a workspace.
type ConversationService struct {
	store     store.Store
	responder ConversationResponder
	logger    *zap.Logger
	now       func() time.Time
}

func NewConversationService(s store.Store, responder ConversationResponder, logger *zap.Logger) *ConversationService {
	return &ConversationService{
		store:     s,
		responder: responder,
		logger:    logger.Named("conversations"),
		now:       time.Now,
	}
}

// loadMessages returns the stored messages of an owned workspace. A workspace
// without a conversation yields an empty slice.
func loadMessages(ctx context.Context, s store.Store, userID, workspaceID uuid.UUID) ([]models.ConversationMessage, error) {
	if _, err := ownedWorkspace(ctx, s, userID, workspaceID); err != nil {
		return nil, err
	}
	conv, err := s.GetConversationByWorkspace(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.ConversationMessage{}, nil
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv.Messages, nil
}

// GetMessages returns the conversation of a workspace.
func (s *ConversationService) GetMessages(ctx context.Context, userID, workspaceID uuid.UUID) ([]models.ConversationMessage, error) {
	return loadMessages(ctx, s.store, userID, workspaceID)
}

// SendMessage records a founder message together with the assistant's reply
// and returns the reply.
func (s *ConversationService) SendMessage(ctx context.Context, userID, workspaceID uuid.UUID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}
	if utf8.RuneCountInString(message) >= maxMessageLength {
		return "", fmt.Errorf("%w: message must be less than %d characters", ErrValidation, maxMessageLength)
	}

	history, err := loadMessages(ctx, s.store, userID, workspaceID)
	if err != nil {
		return "", err
	}

	reply := s.responder.ConversationReply(ctx, message, ai.BuildConversationContext(history))

	_, err = s.store.AppendMessages(ctx, workspaceID,
		models.ConversationMessage{Role: models.RoleUser, Content: message},
		models.ConversationMessage{Role: models.RoleAssistant, Content: reply},
	)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrWorkspaceNotFound
		}
		return "", fmt.Errorf("failed to save messages: %w", err)
	}

	s.logger.Debug("Conversation message stored",
		zap.String("workspace_id", workspaceID.String()),
		zap.Int("history_length", len(history)+2))
	return reply, nil
}

// Maturity assesses whether the conversation is ready for the advisors.
func (s *ConversationService) Maturity(ctx context.Context, userID, workspaceID uuid.UUID) (analysis.MaturityAssessment, error) {
	messages, err := loadMessages(ctx, s.store, userID, workspaceID)
	if err != nil {
		return analysis.MaturityAssessment{}, err
	}
	return analysis.AssessMaturity(messages), nil
}

// Analysis extracts the structured startup idea from the conversation.
func (s *ConversationService) Analysis(ctx context.Context, userID, workspaceID uuid.UUID) (*ConversationInsights, error) {
	messages, err := loadMessages(ctx, s.store, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrNoConversation
	}

	a, err := analysis.Analyze(messages)
	if err != nil {
		return nil, fmt.Errorf("analyzing conversation: %w", err)
	}
	return &ConversationInsights{
		ConversationAnalysis: a,
		Summary:              analysis.Summarize(a),
		OpportunityScore:     analysis.OpportunityScore(a),
		AnalyzedAt:           s.now().UTC(),
	}, nil
}
