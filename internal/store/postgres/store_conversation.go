package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var (
		c   models.Conversation
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.WorkspaceID, &raw, &c.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &c.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation messages: %w", err)
	}
	if c.Messages == nil {
		c.Messages = []models.ConversationMessage{}
	}
	return &c, nil
}

const getConversationByWorkspace = `-- name: GetConversationByWorkspace :one
SELECT id, workspace_id, messages, created_at
FROM conversations
WHERE workspace_id = $1;
`

func (s *PostgresStore) GetConversationByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*models.Conversation, error) {
	c, err := scanConversation(s.db.QueryRow(ctx, getConversationByWorkspace, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning conversation: %w", err)
	}
	return c, nil
}

// appendMessages creates the conversation on first use; afterwards the new
// messages are concatenated onto the stored JSONB array in one statement.
const appendMessages = `-- name: AppendMessages :one
INSERT INTO conversations (id, workspace_id, messages)
VALUES ($1, $2, $3::jsonb)
ON CONFLICT (workspace_id)
DO UPDATE SET messages = conversations.messages || EXCLUDED.messages
RETURNING id, workspace_id, messages, created_at;
`

const touchWorkspace = `UPDATE workspaces SET updated_at = NOW() WHERE id = $1;`

func (s *PostgresStore) AppendMessages(ctx context.Context, workspaceID uuid.UUID, msgs ...models.ConversationMessage) (*models.Conversation, error) {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	c, err := scanConversation(tx.QueryRow(ctx, appendMessages, uuid.New(), workspaceID, payload))
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, store.ErrNotFound
		}
		s.logger.Error("AppendMessages failed", zap.Stringer("workspace_id", workspaceID), zap.Error(err))
		return nil, fmt.Errorf("database error appending messages: %w", err)
	}
	if _, err := tx.Exec(ctx, touchWorkspace, workspaceID); err != nil {
		return nil, fmt.Errorf("database error touching workspace: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return c, nil
}
