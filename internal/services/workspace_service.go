package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrForbidden         = errors.New("access denied")
)

const maxTitleLength = 200

// WorkspaceService manages the caller's workspaces.
type WorkspaceService struct {
	store  store.Store
	logger *zap.Logger
}

func NewWorkspaceService(s store.Store, logger *zap.Logger) *WorkspaceService {
	return &WorkspaceService{
		store:  s,
		logger: logger.Named("workspaces"),
	}
}

// ownedWorkspace loads a workspace and checks that userID owns it.
func ownedWorkspace(ctx context.Context, s store.Store, userID, workspaceID uuid.UUID) (*models.Workspace, error) {
	ws, err := s.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if ws.UserID != userID {
		return nil, ErrForbidden
	}
	return ws, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) >= maxTitleLength {
		return "", fmt.Errorf("%w: title must be less than %d characters", ErrValidation, maxTitleLength)
	}
	return title, nil
}

// CreateWorkspace creates a workspace owned by userID.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, userID uuid.UUID, req models.CreateWorkspaceRequest) (*models.Workspace, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}

	ws := &models.Workspace{
		UserID:          userID,
		Title:           title,
		StartupIdeaText: req.StartupIdeaText,
	}
	if err := s.store.CreateWorkspace(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	s.logger.Info("Workspace created",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("user_id", userID.String()))
	return ws, nil
}

// ListWorkspaces returns the caller's workspaces, most recently updated first.
func (s *WorkspaceService) ListWorkspaces(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	list, err := s.store.ListWorkspacesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return list, nil
}

func (s *WorkspaceService) GetWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*models.Workspace, error) {
	return ownedWorkspace(ctx, s.store, userID, workspaceID)
}

// UpdateWorkspace applies the non-nil fields of req.
func (s *WorkspaceService) UpdateWorkspace(ctx context.Context, userID, workspaceID uuid.UUID, req models.UpdateWorkspaceRequest) (*models.Workspace, error) {
	if _, err := ownedWorkspace(ctx, s.store, userID, workspaceID); err != nil {
		return nil, err
	}

	params := store.UpdateWorkspaceParams{
		ID:              workspaceID,
		StartupIdeaText: req.StartupIdeaText,
	}
	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		params.Title = &title
	}

	ws, err := s.store.UpdateWorkspace(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}
	return ws, nil
}
