package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Workspace is a user-owned container for one startup idea: its conversation
// and the advisor reports generated from it.
type Workspace struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	Title           string    `db:"title" json:"title"`
	StartupIdeaText string    `db:"startup_idea_text" json:"startup_idea_text"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Conversation holds the ordered chat history of a workspace.
// Messages are only ever appended, in (user, assistant) pairs.
type Conversation struct {
	ID          uuid.UUID             `db:"id" json:"id"`
	WorkspaceID uuid.UUID             `db:"workspace_id" json:"workspace_id"`
	Messages    []ConversationMessage `db:"messages" json:"messages"` // Stored as JSONB
	CreatedAt   time.Time             `db:"created_at" json:"created_at"`
}

// AgentOutput is the latest report produced by one advisor for a workspace.
type AgentOutput struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	WorkspaceID uuid.UUID       `db:"workspace_id" json:"workspace_id"`
	AgentType   AgentType       `db:"agent_type" json:"agent_type"`
	OutputData  json.RawMessage `db:"output_data" json:"output_data"` // Stored as JSONB
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// AgentChat is one question/answer exchange with a single advisor.
type AgentChat struct {
	ID            uuid.UUID `db:"id" json:"id"`
	WorkspaceID   uuid.UUID `db:"workspace_id" json:"workspace_id"`
	AgentType     AgentType `db:"agent_type" json:"agent_type"`
	UserMessage   string    `db:"user_message" json:"user_message"`
	AgentResponse string    `db:"agent_response" json:"agent_response"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
