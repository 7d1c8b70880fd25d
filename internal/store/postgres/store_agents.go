package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
)

// --- Agent Output Methods ---

const deleteAgentOutputs = `-- name: DeleteAgentOutputs :exec
DELETE FROM agent_outputs WHERE workspace_id = $1;
`

const upsertAgentOutput = `-- name: UpsertAgentOutput :one
INSERT INTO agent_outputs (id, workspace_id, agent_type, output_data)
VALUES ($1, $2, $3, $4::jsonb)
ON CONFLICT (workspace_id, agent_type)
DO UPDATE SET output_data = EXCLUDED.output_data, created_at = NOW()
RETURNING id, created_at;
`

// ReplaceAgentOutputs swaps every stored output of a workspace for the given set.
func (s *PostgresStore) ReplaceAgentOutputs(ctx context.Context, workspaceID uuid.UUID, outputs []models.AgentOutput) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, deleteAgentOutputs, workspaceID); err != nil {
		return fmt.Errorf("database error clearing agent outputs: %w", err)
	}

	batch := &pgx.Batch{}
	for _, o := range outputs {
		id := o.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(upsertAgentOutput, id, workspaceID, string(o.AgentType), []byte(o.OutputData))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		s.logger.Error("ReplaceAgentOutputs failed", zap.Stringer("workspace_id", workspaceID), zap.Error(err))
		return fmt.Errorf("database error inserting agent outputs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertAgentOutput(ctx context.Context, output *models.AgentOutput) error {
	if output.ID == uuid.Nil {
		output.ID = uuid.New()
	}
	err := s.db.QueryRow(ctx, upsertAgentOutput,
		output.ID,
		output.WorkspaceID,
		string(output.AgentType),
		[]byte(output.OutputData),
	).Scan(&output.ID, &output.CreatedAt)
	if err != nil {
		return fmt.Errorf("database error upserting agent output: %w", err)
	}
	return nil
}

const listAgentOutputs = `-- name: ListAgentOutputs :many
SELECT id, workspace_id, agent_type, output_data, created_at
FROM agent_outputs
WHERE workspace_id = $1
ORDER BY array_position(ARRAY['ceo','developer','finance','marketing','sales','overview'], agent_type);
`

func (s *PostgresStore) ListAgentOutputs(ctx context.Context, workspaceID uuid.UUID) ([]models.AgentOutput, error) {
	rows, err := s.db.Query(ctx, listAgentOutputs, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("error querying agent outputs: %w", err)
	}
	defer rows.Close()

	items := make([]models.AgentOutput, 0)
	for rows.Next() {
		var (
			o         models.AgentOutput
			agentType string
			data      []byte
		)
		if err := rows.Scan(&o.ID, &o.WorkspaceID, &agentType, &data, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning agent output row: %w", err)
		}
		o.AgentType = models.AgentType(agentType)
		o.OutputData = data
		items = append(items, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agent output rows: %w", err)
	}
	return items, nil
}

// --- Agent Chat Methods ---

const createAgentChat = `-- name: CreateAgentChat :one
INSERT INTO agent_chats (id, workspace_id, agent_type, user_message, agent_response)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at;
`

func (s *PostgresStore) CreateAgentChat(ctx context.Context, chat *models.AgentChat) error {
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	err := s.db.QueryRow(ctx, createAgentChat,
		chat.ID,
		chat.WorkspaceID,
		string(chat.AgentType),
		chat.UserMessage,
		chat.AgentResponse,
	).Scan(&chat.CreatedAt)
	if err != nil {
		return fmt.Errorf("database error creating agent chat: %w", err)
	}
	return nil
}

const listAgentChats = `-- name: ListAgentChats :many
SELECT id, workspace_id, agent_type, user_message, agent_response, created_at
FROM agent_chats
WHERE workspace_id = $1 AND agent_type = $2
ORDER BY created_at ASC;
`

func (s *PostgresStore) ListAgentChats(ctx context.Context, workspaceID uuid.UUID, agentType models.AgentType) ([]models.AgentChat, error) {
	rows, err := s.db.Query(ctx, listAgentChats, workspaceID, string(agentType))
	if err != nil {
		return nil, fmt.Errorf("error querying agent chats: %w", err)
	}
	defer rows.Close()

	items := make([]models.AgentChat, 0)
	for rows.Next() {
		var (
			c  models.AgentChat
			at string
		)
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &at, &c.UserMessage, &c.AgentResponse, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning agent chat row: %w", err)
		}
		c.AgentType = models.AgentType(at)
		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agent chat rows: %w", err)
	}
	return items, nil
}
