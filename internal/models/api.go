package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// RegisterRequest defines the expected body for the register endpoint.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Workspace DTOs ---

// CreateWorkspaceRequest defines the body for creating a workspace.
type CreateWorkspaceRequest struct {
	Title           string `json:"title"`
	StartupIdeaText string `json:"startup_idea_text"`
}

// UpdateWorkspaceRequest allows partial updates; nil fields are left untouched.
type UpdateWorkspaceRequest struct {
	Title           *string `json:"title,omitempty"`
	StartupIdeaText *string `json:"startup_idea_text,omitempty"`
}

// WorkspaceResponse wraps a single workspace.
type WorkspaceResponse struct {
	Message   string     `json:"message,omitempty"`
	Workspace *Workspace `json:"workspace"`
}

// ListWorkspacesResponse wraps the workspaces owned by the caller.
type ListWorkspacesResponse struct {
	Workspaces []Workspace `json:"workspaces"`
}

// --- Conversation DTOs ---

// SendMessageRequest is the body for posting a chat message.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessageResponse returns the assistant's reply.
type SendMessageResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// MessagesResponse lists a workspace conversation.
type MessagesResponse struct {
	Messages []ConversationMessage `json:"messages"`
}

// --- Agent DTOs ---

// AgentType names one of the six advisors.
type AgentType string

const (
	AgentCEO       AgentType = "ceo"
	AgentDeveloper AgentType = "developer"
	AgentFinance   AgentType = "finance"
	AgentMarketing AgentType = "marketing"
	AgentSales     AgentType = "sales"
	AgentOverview  AgentType = "overview"
)

// AgentTypes lists every advisor in generation order; overview always runs last.
var AgentTypes = []AgentType{
	AgentCEO,
	AgentDeveloper,
	AgentFinance,
	AgentMarketing,
	AgentSales,
	AgentOverview,
}

// IsValid reports whether t names a known advisor.
func (t AgentType) IsValid() bool {
	for _, known := range AgentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// GenerateAgentsResponse is returned once every advisor has produced output.
type GenerateAgentsResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// AgentOutputsResponse lists the stored advisor reports of a workspace.
type AgentOutputsResponse struct {
	Outputs []AgentOutput `json:"outputs"`
}

// RegenerateAgentResponse returns a freshly generated report.
type RegenerateAgentResponse struct {
	Message string          `json:"message"`
	Output  json.RawMessage `json:"output"`
}

// AgentChatRequest is the body for asking a single advisor a question.
type AgentChatRequest struct {
	Message string `json:"message"`
}

// AgentChatResponse is an advisor's answer.
type AgentChatResponse struct {
	Response string `json:"response"`
	Agent    string `json:"agent"`
	Role     string `json:"role"`
}

// AgentChatHistoryResponse lists previous exchanges with an advisor.
type AgentChatHistoryResponse struct {
	Chats []AgentChat `json:"chats"`
}

// AgentStatus describes a registered advisor.
type AgentStatus struct {
	Type         AgentType `json:"type"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Capabilities []string  `json:"capabilities"`
	Status       string    `json:"status"`
}
