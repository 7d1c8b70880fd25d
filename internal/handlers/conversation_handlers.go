package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/services"
	"tinyceo-backend/pkg/httputil"
)

// ConversationService defines the interface expected from the conversation service.
type ConversationService interface {
	GetMessages(ctx context.Context, userID, workspaceID uuid.UUID) ([]models.ConversationMessage, error)
	SendMessage(ctx context.Context, userID, workspaceID uuid.UUID, message string) (string, error)
	Maturity(ctx context.Context, userID, workspaceID uuid.UUID) (analysis.MaturityAssessment, error)
	Analysis(ctx context.Context, userID, workspaceID uuid.UUID) (*services.ConversationInsights, error)
}

type ConversationHandler struct {
	conversationService ConversationService
	logger              *zap.Logger
}

func NewConversationHandler(svc ConversationService, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversationService: svc,
		logger:              logger.Named("conversation_handler"),
	}
}

// HandleGetMessages handles GET /workspaces/{workspaceID}/conversations
func (h *ConversationHandler) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}

	messages, err := h.conversationService.GetMessages(r.Context(), uid, wsID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get conversation")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.MessagesResponse{Messages: messages})
}

// HandleSendMessage handles POST /workspaces/{workspaceID}/conversations/message
func (h *ConversationHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.conversationService.SendMessage(r.Context(), uid, wsID, req.Message)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to send message")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.SendMessageResponse{
		Message:  req.Message,
		Response: reply,
	})
}

// HandleGetMaturity handles GET /workspaces/{workspaceID}/conversations/maturity
func (h *ConversationHandler) HandleGetMaturity(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}

	maturity, err := h.conversationService.Maturity(r.Context(), uid, wsID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to assess conversation")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, maturity)
}

// HandleGetAnalysis handles GET /workspaces/{workspaceID}/conversations/analysis
func (h *ConversationHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}

	insights, err := h.conversationService.Analysis(r.Context(), uid, wsID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to analyze conversation")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, insights)
}
