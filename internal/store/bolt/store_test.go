package boltstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

func openTestStore(t *testing.T, path string) *BoltStore {
	t.Helper()
	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestUsersSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tinyceo.db")

	s := openTestStore(t, path)
	u := &models.User{Email: "Founder@Example.com", HashedPassword: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Email: "founder@example.com"}), store.ErrDuplicate)
	require.NoError(t, s.Close())

	s = openTestStore(t, path)
	defer s.Close()

	got, err := s.GetUserByEmail(ctx, " FOUNDER@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.HashedPassword)

	got, err = s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Founder@Example.com", got.Email)

	_, err = s.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWorkspacesAndConversation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "tinyceo.db"))
	defer s.Close()
	owner := uuid.New()

	first := &models.Workspace{UserID: owner, Title: "First"}
	second := &models.Workspace{UserID: owner, Title: "Second"}
	require.NoError(t, s.CreateWorkspace(ctx, first))
	require.NoError(t, s.CreateWorkspace(ctx, second))
	require.NoError(t, s.CreateWorkspace(ctx, &models.Workspace{UserID: uuid.New(), Title: "Other"}))

	list, err := s.ListWorkspacesByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)

	_, err = s.GetConversationByWorkspace(ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.AppendMessages(ctx, uuid.New(), models.ConversationMessage{Role: models.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.AppendMessages(ctx, first.ID, models.ConversationMessage{Role: models.RoleUser, Content: "hi"})
	require.NoError(t, err)
	conv, err := s.AppendMessages(ctx, first.ID, models.ConversationMessage{Role: models.RoleAssistant, Content: "hello"})
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "hello", conv.Messages[1].Content)

	list, err = s.ListWorkspacesByUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "First", list[0].Title)

	idea := "Invoices for freelancers"
	updated, err := s.UpdateWorkspace(ctx, store.UpdateWorkspaceParams{ID: first.ID, StartupIdeaText: &idea})
	require.NoError(t, err)
	assert.Equal(t, "First", updated.Title)
	assert.Equal(t, idea, updated.StartupIdeaText)

	_, err = s.UpdateWorkspace(ctx, store.UpdateWorkspaceParams{ID: uuid.New(), StartupIdeaText: &idea})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAgentOutputsAndChats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "tinyceo.db"))
	defer s.Close()
	wsID := uuid.New()

	empty, err := s.ListAgentOutputs(ctx, wsID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.ReplaceAgentOutputs(ctx, wsID, []models.AgentOutput{
		{AgentType: models.AgentOverview, OutputData: json.RawMessage(`{"v":1}`)},
		{AgentType: models.AgentCEO, OutputData: json.RawMessage(`{"v":1}`)},
	}))
	require.NoError(t, s.UpsertAgentOutput(ctx, &models.AgentOutput{
		WorkspaceID: wsID,
		AgentType:   models.AgentCEO,
		OutputData:  json.RawMessage(`{"v":2}`),
	}))

	outputs, err := s.ListAgentOutputs(ctx, wsID)
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, models.AgentCEO, outputs[0].AgentType)
	assert.JSONEq(t, `{"v":2}`, string(outputs[0].OutputData))
	assert.Equal(t, models.AgentOverview, outputs[1].AgentType)
	assert.Equal(t, wsID, outputs[1].WorkspaceID)

	chats, err := s.ListAgentChats(ctx, wsID, models.AgentCEO)
	require.NoError(t, err)
	assert.NotNil(t, chats)
	assert.Empty(t, chats)

	for _, c := range []models.AgentChat{
		{WorkspaceID: wsID, AgentType: models.AgentCEO, UserMessage: "one"},
		{WorkspaceID: wsID, AgentType: models.AgentSales, UserMessage: "two"},
		{WorkspaceID: wsID, AgentType: models.AgentCEO, UserMessage: "three"},
	} {
		require.NoError(t, s.CreateAgentChat(ctx, &c))
	}
	chats, err = s.ListAgentChats(ctx, wsID, models.AgentCEO)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "one", chats[0].UserMessage)
	assert.Equal(t, "three", chats[1].UserMessage)
}
