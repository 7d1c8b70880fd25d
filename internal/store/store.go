package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tinyceo-backend/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint (e.g. user email) would be violated.
var ErrDuplicate = errors.New("record already exists")

// UpdateWorkspaceParams contains parameters for updating a workspace.
type UpdateWorkspaceParams struct {
	ID              uuid.UUID
	Title           *string // Pointers allow partial updates
	StartupIdeaText *string
}

// Store defines the interface for persistence operations.
// This allows for mocking in tests and switching between the in-memory and Postgres backends.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Workspace operations
	CreateWorkspace(ctx context.Context, ws *models.Workspace) error
	GetWorkspaceByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	ListWorkspacesByUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) // Newest update first
	UpdateWorkspace(ctx context.Context, arg UpdateWorkspaceParams) (*models.Workspace, error)

	// Conversation operations
	GetConversationByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*models.Conversation, error)
	// AppendMessages adds messages to the workspace conversation, creating it on first use.
	AppendMessages(ctx context.Context, workspaceID uuid.UUID, msgs ...models.ConversationMessage) (*models.Conversation, error)

	// Agent output operations
	ReplaceAgentOutputs(ctx context.Context, workspaceID uuid.UUID, outputs []models.AgentOutput) error
	UpsertAgentOutput(ctx context.Context, output *models.AgentOutput) error
	ListAgentOutputs(ctx context.Context, workspaceID uuid.UUID) ([]models.AgentOutput, error)

	// Agent chat operations
	CreateAgentChat(ctx context.Context, chat *models.AgentChat) error
	ListAgentChats(ctx context.Context, workspaceID uuid.UUID, agentType models.AgentType) ([]models.AgentChat, error)
}
