package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/pkg/httputil"
)

// AgentService defines the interface expected from the agent service.
type AgentService interface {
	GenerateAgents(ctx context.Context, userID, workspaceID uuid.UUID) error
	ListOutputs(ctx context.Context, userID, workspaceID uuid.UUID) ([]models.AgentOutput, error)
	RegenerateAgent(ctx context.Context, userID, workspaceID uuid.UUID, agentType string) (json.RawMessage, error)
	ChatWithAgent(ctx context.Context, userID, workspaceID uuid.UUID, agentType, message string) (models.AgentChatResponse, error)
	ChatHistory(ctx context.Context, userID, workspaceID uuid.UUID, agentType string) ([]models.AgentChat, error)
	AgentStatus() []models.AgentStatus
}

type AgentHandler struct {
	agentService AgentService
	logger       *zap.Logger
}

func NewAgentHandler(svc AgentService, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		agentService: svc,
		logger:       logger.Named("agent_handler"),
	}
}

// HandleGenerate handles POST /workspaces/{workspaceID}/agents/generate
func (h *AgentHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}

	if err := h.agentService.GenerateAgents(r.Context(), uid, wsID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to generate agent outputs")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.GenerateAgentsResponse{
		Message: "All agents have completed their analysis",
		Status:  "completed",
	})
}

// HandleListOutputs handles GET /workspaces/{workspaceID}/agents
func (h *AgentHandler) HandleListOutputs(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}

	outputs, err := h.agentService.ListOutputs(r.Context(), uid, wsID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list agent outputs")
		return
	}
	if outputs == nil {
		outputs = []models.AgentOutput{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.AgentOutputsResponse{Outputs: outputs})
}

// HandleRegenerate handles POST /workspaces/{workspaceID}/agents/{agentType}/regenerate
func (h *AgentHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}
	agentType := chi.URLParam(r, "agentType")

	out, err := h.agentService.RegenerateAgent(r.Context(), uid, wsID, agentType)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to regenerate agent")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.RegenerateAgentResponse{
		Message: fmt.Sprintf("%s agent regenerated successfully", agentType),
		Output:  out,
	})
}

// HandleChat handles POST /workspaces/{workspaceID}/agents/{agentType}/chat
func (h *AgentHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.AgentChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.agentService.ChatWithAgent(r.Context(), uid, wsID, chi.URLParam(r, "agentType"), req.Message)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to chat with agent")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleChatHistory handles GET /workspaces/{workspaceID}/agents/{agentType}/chat
func (h *AgentHandler) HandleChatHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}

	chats, err := h.agentService.ChatHistory(r.Context(), uid, wsID, chi.URLParam(r, "agentType"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get chat history")
		return
	}
	if chats == nil {
		chats = []models.AgentChat{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.AgentChatHistoryResponse{Chats: chats})
}

// HandleStatus handles GET /agents
func (h *AgentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.agentService.AgentStatus())
}
