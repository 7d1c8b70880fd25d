package models

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is a single entry in a workspace conversation.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessages returns the user-authored messages in their original order.
func UserMessages(messages []ConversationMessage) []ConversationMessage {
	out := make([]ConversationMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}
