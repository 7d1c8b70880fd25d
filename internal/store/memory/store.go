// Package memory is the default, non-durable store backend. Data lives for
// the lifetime of the process.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

var _ store.Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]*models.User
	usersByEmail  map[string]uuid.UUID
	workspaces    map[uuid.UUID]*models.Workspace
	conversations map[uuid.UUID]*models.Conversation // keyed by workspace ID
	outputs       map[uuid.UUID]map[models.AgentType]*models.AgentOutput
	chats         map[uuid.UUID][]models.AgentChat

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uuid.UUID]*models.User),
		usersByEmail:  make(map[string]uuid.UUID),
		workspaces:    make(map[uuid.UUID]*models.Workspace),
		conversations: make(map[uuid.UUID]*models.Conversation),
		outputs:       make(map[uuid.UUID]map[models.AgentType]*models.AgentOutput),
		chats:         make(map[uuid.UUID][]models.AgentChat),
		now:           time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User methods

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, exists := s.usersByEmail[key]; exists {
		return store.ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}

	u := *user
	s.users[u.ID] = &u
	s.usersByEmail[key] = u.ID
	return nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[emailKey(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *u
	return &out, nil
}

// Workspace methods

func (s *MemoryStore) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ws.ID == uuid.Nil {
		ws.ID = uuid.New()
	}
	now := s.now()
	ws.CreatedAt = now
	ws.UpdatedAt = now

	w := *ws
	s.workspaces[w.ID] = &w
	return nil
}

func (s *MemoryStore) GetWorkspaceByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *w
	return &out, nil
}

func (s *MemoryStore) ListWorkspacesByUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Workspace, 0)
	for _, w := range s.workspaces {
		if w.UserID == userID {
			list = append(list, *w)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

func (s *MemoryStore) UpdateWorkspace(ctx context.Context, arg store.UpdateWorkspaceParams) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workspaces[arg.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if arg.Title != nil {
		w.Title = *arg.Title
	}
	if arg.StartupIdeaText != nil {
		w.StartupIdeaText = *arg.StartupIdeaText
	}
	w.UpdatedAt = s.now()

	out := *w
	return &out, nil
}

// Conversation methods

func copyConversation(c *models.Conversation) *models.Conversation {
	out := *c
	out.Messages = slices.Clone(c.Messages)
	return &out
}

func (s *MemoryStore) GetConversationByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[workspaceID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyConversation(c), nil
}

func (s *MemoryStore) AppendMessages(ctx context.Context, workspaceID uuid.UUID, msgs ...models.ConversationMessage) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[workspaceID]; !ok {
		return nil, store.ErrNotFound
	}

	c, ok := s.conversations[workspaceID]
	if !ok {
		c = &models.Conversation{
			ID:          uuid.New(),
			WorkspaceID: workspaceID,
			Messages:    []models.ConversationMessage{},
			CreatedAt:   s.now(),
		}
		s.conversations[workspaceID] = c
	}
	c.Messages = append(c.Messages, msgs...)
	s.workspaces[workspaceID].UpdatedAt = s.now()

	return copyConversation(c), nil
}

// Agent output methods

func agentOrder(t models.AgentType) int {
	return slices.Index(models.AgentTypes, t)
}

func (s *MemoryStore) ReplaceAgentOutputs(ctx context.Context, workspaceID uuid.UUID, outputs []models.AgentOutput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byType := make(map[models.AgentType]*models.AgentOutput, len(outputs))
	for i := range outputs {
		o := outputs[i]
		s.fillOutput(&o, workspaceID)
		byType[o.AgentType] = &o
	}
	s.outputs[workspaceID] = byType
	return nil
}

func (s *MemoryStore) UpsertAgentOutput(ctx context.Context, output *models.AgentOutput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fillOutput(output, output.WorkspaceID)
	byType, ok := s.outputs[output.WorkspaceID]
	if !ok {
		byType = make(map[models.AgentType]*models.AgentOutput)
		s.outputs[output.WorkspaceID] = byType
	}
	o := *output
	byType[o.AgentType] = &o
	return nil
}

func (s *MemoryStore) fillOutput(o *models.AgentOutput, workspaceID uuid.UUID) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.WorkspaceID = workspaceID
	o.CreatedAt = s.now()
}

func (s *MemoryStore) ListAgentOutputs(ctx context.Context, workspaceID uuid.UUID) ([]models.AgentOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.AgentOutput, 0, len(s.outputs[workspaceID]))
	for _, o := range s.outputs[workspaceID] {
		list = append(list, *o)
	}
	sort.Slice(list, func(i, j int) bool {
		return agentOrder(list[i].AgentType) < agentOrder(list[j].AgentType)
	})
	return list, nil
}

// Agent chat methods

func (s *MemoryStore) CreateAgentChat(ctx context.Context, chat *models.AgentChat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	chat.CreatedAt = s.now()
	s.chats[chat.WorkspaceID] = append(s.chats[chat.WorkspaceID], *chat)
	return nil
}

func (s *MemoryStore) ListAgentChats(ctx context.Context, workspaceID uuid.UUID, agentType models.AgentType) ([]models.AgentChat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.AgentChat, 0)
	for _, c := range s.chats[workspaceID] {
		if c.AgentType == agentType {
			list = append(list, c)
		}
	}
	return list, nil
}
