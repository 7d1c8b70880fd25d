package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tinyceo-backend/internal/agents"
	"tinyceo-backend/internal/ai"
	"tinyceo-backend/internal/auth"
	"tinyceo-backend/internal/config"
	"tinyceo-backend/internal/handlers"
	"tinyceo-backend/internal/services"
	"tinyceo-backend/internal/store/memory"
)

const testSecret = "router-test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{
		JWTSecret:       testSecret,
		TokenExpiration: time.Hour,
		CORSOrigins:     []string{"http://localhost:3000"},
	}
	st := memory.NewMemoryStore()
	llm := ai.NewService(nil, ai.NewFallback(ai.NewRandomPicker(7)), ai.Options{}, logger)

	router := NewRouter(RouterDependencies{
		AuthHandler:         handlers.NewAuthHandler(services.NewAuthService(st, cfg, logger), logger),
		WorkspaceHandler:    handlers.NewWorkspaceHandler(services.NewWorkspaceService(st, logger), logger),
		ConversationHandler: handlers.NewConversationHandler(services.NewConversationService(st, llm, logger), logger),
		AgentHandler:        handlers.NewAgentHandler(services.NewAgentService(st, agents.NewOrchestrator(llm, logger), logger), logger),
		Config:              cfg,
		Logger:              logger,
		AIProvider:          llm.Provider(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c client) call(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func register(t *testing.T, base, email string) client {
	t.Helper()
	c := client{t: t, base: base}
	var resp struct {
		Token string `json:"token"`
	}
	code := c.call(http.MethodPost, "/auth/register", map[string]string{"email": email, "password": "secret1"}, &resp)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, resp.Token)
	c.token = resp.Token
	return c
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	var body map[string]string
	code := client{t: t, base: srv.URL}.call(http.MethodGet, "/health", nil, &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, config.ProviderFallback, body["ai_provider"])
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	anon := client{t: t, base: srv.URL}

	var body map[string]string
	assert.Equal(t, http.StatusUnauthorized, anon.call(http.MethodGet, "/workspaces", nil, &body))
	assert.Equal(t, "Authorization header required", body["error"])

	bad := client{t: t, base: srv.URL, token: "not.a.jwt"}
	assert.Equal(t, http.StatusUnauthorized, bad.call(http.MethodGet, "/agents", nil, &body))

	other, err := auth.NewAccessToken(uuid.New(), "x@y.co", "some-other-secret", time.Hour)
	require.NoError(t, err)
	forged := client{t: t, base: srv.URL, token: other}
	assert.Equal(t, http.StatusUnauthorized, forged.call(http.MethodGet, "/agents", nil, &body))
	assert.Equal(t, "Invalid token", body["error"])
}

func TestFounderJourney(t *testing.T) {
	srv := newTestServer(t)
	founder := register(t, srv.URL, "founder@example.com")

	var login struct {
		Token string `json:"token"`
	}
	anon := client{t: t, base: srv.URL}
	require.Equal(t, http.StatusOK, anon.call(http.MethodPost, "/auth/login",
		map[string]string{"email": "founder@example.com", "password": "secret1"}, &login))
	assert.NotEmpty(t, login.Token)

	var created struct {
		Workspace struct {
			ID string `json:"id"`
		} `json:"workspace"`
	}
	require.Equal(t, http.StatusCreated, founder.call(http.MethodPost, "/workspaces",
		map[string]string{"title": "Invoicing for freelancers"}, &created))
	ws := "/workspaces/" + created.Workspace.ID

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, founder.call(http.MethodGet, ws+"/conversations/analysis", nil, &errBody))

	var sent struct {
		Message  string `json:"message"`
		Response string `json:"response"`
	}
	require.Equal(t, http.StatusOK, founder.call(http.MethodPost, ws+"/conversations/message",
		map[string]string{"message": "I want to build an invoicing platform for freelancers. The problem is they struggle to get paid on time."}, &sent))
	assert.Equal(t, ai.ReplyWelcome, sent.Response)

	assert.Equal(t, http.StatusBadRequest, founder.call(http.MethodPost, ws+"/agents/generate", nil, &errBody))
	assert.Contains(t, errBody["error"], "Conversation needs more details.")

	require.Equal(t, http.StatusOK, founder.call(http.MethodPost, ws+"/conversations/message",
		map[string]string{"message": "We will charge a monthly subscription of $29 and sell to small business customers who send lots of invoices every month."}, &sent))

	var maturity struct {
		IsReady bool `json:"is_ready"`
	}
	require.Equal(t, http.StatusOK, founder.call(http.MethodGet, ws+"/conversations/maturity", nil, &maturity))
	assert.True(t, maturity.IsReady)

	var insights map[string]any
	require.Equal(t, http.StatusOK, founder.call(http.MethodGet, ws+"/conversations/analysis", nil, &insights))
	assert.Contains(t, insights, "industry")
	assert.Contains(t, insights, "summary")
	assert.Contains(t, insights, "analyzed_at")

	var generated map[string]string
	require.Equal(t, http.StatusOK, founder.call(http.MethodPost, ws+"/agents/generate", nil, &generated))
	assert.Equal(t, "completed", generated["status"])

	var outputs struct {
		Outputs []struct {
			AgentType  string          `json:"agent_type"`
			OutputData json.RawMessage `json:"output_data"`
		} `json:"outputs"`
	}
	require.Equal(t, http.StatusOK, founder.call(http.MethodGet, ws+"/agents", nil, &outputs))
	require.Len(t, outputs.Outputs, 6)
	assert.Equal(t, "overview", outputs.Outputs[5].AgentType)

	var chat map[string]string
	require.Equal(t, http.StatusOK, founder.call(http.MethodPost, ws+"/agents/ceo/chat",
		map[string]string{"message": "Who are my competitors?"}, &chat))
	assert.Equal(t, "CEO", chat["agent"])
	assert.NotEmpty(t, chat["response"])

	var history struct {
		Chats []map[string]any `json:"chats"`
	}
	require.Equal(t, http.StatusOK, founder.call(http.MethodGet, ws+"/agents/ceo/chat", nil, &history))
	assert.Len(t, history.Chats, 1)

	assert.Equal(t, http.StatusBadRequest, founder.call(http.MethodPost, ws+"/agents/cfo/regenerate", nil, &errBody))

	intruder := register(t, srv.URL, "intruder@example.com")
	assert.Equal(t, http.StatusForbidden, intruder.call(http.MethodGet, ws, nil, &errBody))
	assert.Equal(t, http.StatusForbidden, intruder.call(http.MethodGet, ws+"/agents", nil, &errBody))

	var list struct {
		Workspaces []map[string]any `json:"workspaces"`
	}
	require.Equal(t, http.StatusOK, intruder.call(http.MethodGet, "/workspaces", nil, &list))
	assert.Empty(t, list.Workspaces)
}
