package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/pkg/httputil"
)

// WorkspaceService defines the interface expected from the workspace service.
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, userID uuid.UUID, req models.CreateWorkspaceRequest) (*models.Workspace, error)
	ListWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error)
	GetWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*models.Workspace, error)
	UpdateWorkspace(ctx context.Context, userID, workspaceID uuid.UUID, req models.UpdateWorkspaceRequest) (*models.Workspace, error)
}

type WorkspaceHandler struct {
	workspaceService WorkspaceService
	logger           *zap.Logger
}

func NewWorkspaceHandler(svc WorkspaceService, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: svc,
		logger:           logger.Named("workspace_handler"),
	}
}

// HandleCreateWorkspace handles POST /workspaces
func (h *WorkspaceHandler) HandleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req models.CreateWorkspaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws, err := h.workspaceService.CreateWorkspace(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create workspace")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, models.WorkspaceResponse{
		Message:   "Workspace created successfully",
		Workspace: ws,
	})
}

// HandleListWorkspaces handles GET /workspaces
func (h *WorkspaceHandler) HandleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	list, err := h.workspaceService.ListWorkspaces(r.Context(), uid)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list workspaces")
		return
	}
	if list == nil {
		list = []models.Workspace{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListWorkspacesResponse{Workspaces: list})
}

// HandleGetWorkspace handles GET /workspaces/{workspaceID}
func (h *WorkspaceHandler) HandleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}

	ws, err := h.workspaceService.GetWorkspace(r.Context(), uid, wsID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get workspace")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.WorkspaceResponse{Workspace: ws})
}

// HandleUpdateWorkspace handles PUT /workspaces/{workspaceID}
func (h *WorkspaceHandler) HandleUpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	wsID, ok := workspaceID(w, r)
	if !ok {
		return
	}
	var req models.UpdateWorkspaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws, err := h.workspaceService.UpdateWorkspace(r.Context(), uid, wsID, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update workspace")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.WorkspaceResponse{
		Message:   "Workspace updated successfully",
		Workspace: ws,
	})
}
