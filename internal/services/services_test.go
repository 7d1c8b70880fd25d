package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tinyceo-backend/internal/agents"
	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/auth"
	"tinyceo-backend/internal/config"
	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/services"
	"tinyceo-backend/internal/store/memory"
)

const testSecret = "services-test-secret"

type fixture struct {
	auth          *services.AuthService
	workspaces    *services.WorkspaceService
	conversations *services.ConversationService
	agents        *services.AgentService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := zap.NewNop()
	st := memory.NewMemoryStore()
	cfg := &config.Config{JWTSecret: testSecret, TokenExpiration: time.Hour}

	llm := ai.NewService(nil, ai.NewFallback(ai.NewRandomPicker(1)), ai.Options{}, logger)
	return fixture{
		auth:          services.NewAuthService(st, cfg, logger),
		workspaces:    services.NewWorkspaceService(st, logger),
		conversations: services.NewConversationService(st, llm, logger),
		agents:        services.NewAgentService(st, agents.NewOrchestrator(llm, logger), logger),
	}
}

func (f fixture) workspace(t *testing.T, owner uuid.UUID) uuid.UUID {
	t.Helper()
	ws, err := f.workspaces.CreateWorkspace(context.Background(), owner, models.CreateWorkspaceRequest{Title: "Invoicing"})
	require.NoError(t, err)
	return ws.ID
}

func (f fixture) say(t *testing.T, owner, wsID uuid.UUID, messages ...string) {
	t.Helper()
	for _, m := range messages {
		_, err := f.conversations.SendMessage(context.Background(), owner, wsID, m)
		require.NoError(t, err)
	}
}

var matureConversation = []string{
	"I want to build an invoicing platform for freelancers. The problem is they struggle to get paid on time.",
	"We will charge a monthly subscription of $29 and sell to small business customers who send lots of invoices every month and hate chasing late payments.",
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("register validates input", func(t *testing.T) {
		f := newFixture(t)
		tests := []struct{ email, password string }{
			{"", "secret1"},
			{"not-an-email", "secret1"},
			{"founder@example", "secret1"},
			{"founder@example.com", "short"},
		}
		for _, tt := range tests {
			_, _, err := f.auth.Register(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, services.ErrValidation, tt.email)
		}
	})

	t.Run("register then login", func(t *testing.T) {
		f := newFixture(t)
		token, user, err := f.auth.Register(ctx, " Founder@Example.com ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "founder@example.com", user.Email)

		claims, err := auth.ParseAccessToken(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)

		_, _, err = f.auth.Register(ctx, "founder@example.com", "another1")
		assert.ErrorIs(t, err, services.ErrUserAlreadyExists)

		_, loggedIn, err := f.auth.Login(ctx, "FOUNDER@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, loggedIn.ID)

		_, _, err = f.auth.Login(ctx, "founder@example.com", "wrong-pass")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		_, _, err = f.auth.Login(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestWorkspaceService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner, stranger := uuid.New(), uuid.New()

	_, err := f.workspaces.CreateWorkspace(ctx, owner, models.CreateWorkspaceRequest{Title: "  "})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = f.workspaces.CreateWorkspace(ctx, owner, models.CreateWorkspaceRequest{Title: strings.Repeat("x", 200)})
	assert.ErrorIs(t, err, services.ErrValidation)

	ws, err := f.workspaces.CreateWorkspace(ctx, owner, models.CreateWorkspaceRequest{Title: strings.Repeat("x", 199), StartupIdeaText: "idea"})
	require.NoError(t, err)
	assert.Equal(t, owner, ws.UserID)

	got, err := f.workspaces.GetWorkspace(ctx, owner, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "idea", got.StartupIdeaText)

	_, err = f.workspaces.GetWorkspace(ctx, stranger, ws.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = f.workspaces.GetWorkspace(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, services.ErrWorkspaceNotFound)

	title := "Renamed"
	updated, err := f.workspaces.UpdateWorkspace(ctx, owner, ws.ID, models.UpdateWorkspaceRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "idea", updated.StartupIdeaText)

	_, err = f.workspaces.UpdateWorkspace(ctx, stranger, ws.ID, models.UpdateWorkspaceRequest{Title: &title})
	assert.ErrorIs(t, err, services.ErrForbidden)

	list, err := f.workspaces.ListWorkspaces(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = f.workspaces.ListWorkspaces(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConversationService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := uuid.New()
	wsID := f.workspace(t, owner)

	_, err := f.conversations.SendMessage(ctx, owner, wsID, "   ")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = f.conversations.SendMessage(ctx, owner, wsID, strings.Repeat("a", 5000))
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = f.conversations.SendMessage(ctx, uuid.New(), wsID, "hello")
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.conversations.Analysis(ctx, owner, wsID)
	assert.ErrorIs(t, err, services.ErrNoConversation)

	maturity, err := f.conversations.Maturity(ctx, owner, wsID)
	require.NoError(t, err)
	assert.False(t, maturity.IsReady)

	reply, err := f.conversations.SendMessage(ctx, owner, wsID, matureConversation[0])
	require.NoError(t, err)
	assert.Equal(t, ai.ReplyWelcome, reply)

	f.say(t, owner, wsID, matureConversation[1])

	messages, err := f.conversations.GetMessages(ctx, owner, wsID)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, models.RoleUser, messages[0].Role)
	assert.Equal(t, models.RoleAssistant, messages[1].Role)
	assert.Equal(t, matureConversation[1], messages[2].Content)

	maturity, err = f.conversations.Maturity(ctx, owner, wsID)
	require.NoError(t, err)
	assert.True(t, maturity.IsReady)
	assert.Equal(t, analysis.RecommendationReady, maturity.Recommendation)

	insights, err := f.conversations.Analysis(ctx, owner, wsID)
	require.NoError(t, err)
	assert.NotEmpty(t, insights.Industry)
	assert.Equal(t, insights.Problem, insights.Summary.ProblemStatement)
	assert.Equal(t, analysis.OpportunityScore(insights.ConversationAnalysis), insights.OpportunityScore)
	assert.False(t, insights.AnalyzedAt.IsZero())
}

func TestAgentService(t *testing.T) {
	ctx := context.Background()

	t.Run("generation requires a mature conversation", func(t *testing.T) {
		f := newFixture(t)
		owner := uuid.New()
		wsID := f.workspace(t, owner)

		err := f.agents.GenerateAgents(ctx, owner, wsID)
		assert.ErrorIs(t, err, services.ErrNoConversation)

		f.say(t, owner, wsID, "hi")
		err = f.agents.GenerateAgents(ctx, owner, wsID)
		require.ErrorIs(t, err, services.ErrConversationNotReady)

		var notReady *services.NotReadyError
		require.True(t, errors.As(err, &notReady))
		assert.False(t, notReady.Maturity.IsReady)
		assert.Equal(t, "Conversation needs more details. "+analysis.RecommendationContinue, err.Error())
	})

	t.Run("generate, regenerate and chat", func(t *testing.T) {
		f := newFixture(t)
		owner := uuid.New()
		wsID := f.workspace(t, owner)
		f.say(t, owner, wsID, matureConversation...)

		require.NoError(t, f.agents.GenerateAgents(ctx, owner, wsID))

		outputs, err := f.agents.ListOutputs(ctx, owner, wsID)
		require.NoError(t, err)
		require.Len(t, outputs, len(models.AgentTypes))
		for i, o := range outputs {
			assert.Equal(t, models.AgentTypes[i], o.AgentType)
			assert.True(t, json.Valid(o.OutputData))
		}

		_, err = f.agents.RegenerateAgent(ctx, owner, wsID, "cfo")
		assert.ErrorIs(t, err, services.ErrInvalidAgentType)

		out, err := f.agents.RegenerateAgent(ctx, owner, wsID, "overview")
		require.NoError(t, err)
		var overview agents.OverviewReport
		require.NoError(t, json.Unmarshal(out, &overview))
		assert.Equal(t, 100, overview.OpportunityScore.MaxScore)

		resp, err := f.agents.ChatWithAgent(ctx, owner, wsID, "finance", "How should I think about pricing?")
		require.NoError(t, err)
		assert.Equal(t, "Finance", resp.Agent)
		assert.Contains(t, resp.Response, "tiered approach")

		_, err = f.agents.ChatWithAgent(ctx, owner, wsID, "finance", strings.Repeat("q", 2000))
		assert.ErrorIs(t, err, services.ErrValidation)
		_, err = f.agents.ChatWithAgent(ctx, owner, wsID, "intern", "hello?")
		assert.ErrorIs(t, err, services.ErrInvalidAgentType)

		chats, err := f.agents.ChatHistory(ctx, owner, wsID, "finance")
		require.NoError(t, err)
		require.Len(t, chats, 1)
		assert.Equal(t, resp.Response, chats[0].AgentResponse)

		chats, err = f.agents.ChatHistory(ctx, owner, wsID, "sales")
		require.NoError(t, err)
		assert.Empty(t, chats)

		_, err = f.agents.ListOutputs(ctx, uuid.New(), wsID)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("status lists every advisor", func(t *testing.T) {
		f := newFixture(t)
		status := f.agents.AgentStatus()
		require.Len(t, status, len(models.AgentTypes))
		assert.Equal(t, models.AgentOverview, status[len(status)-1].Type)
	})
}
