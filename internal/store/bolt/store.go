// Package boltstore is a single-file store.Store backed by bbolt, for running
// without Postgres while keeping data across restarts.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

var _ store.Store = (*BoltStore)(nil)

var (
	bucketUsers         = []byte("users")
	bucketUsersByEmail  = []byte("users_by_email")
	bucketWorkspaces    = []byte("workspaces")
	bucketConversations = []byte("conversations")
	bucketAgentOutputs  = []byte("agent_outputs")
	bucketAgentChats    = []byte("agent_chats")
)

// BoltStore keeps every record as JSON under its ID. Conversations, agent
// outputs and agent chats are keyed by workspace ID.
type BoltStore struct {
	db     *bolt.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (or creates) the database file at path and its buckets.
func Open(path string, logger *zap.Logger) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bolt directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt file %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketUsersByEmail, bucketWorkspaces, bucketConversations, bucketAgentOutputs, bucketAgentChats} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bolt buckets: %w", err)
	}
	return &BoltStore{db: db, logger: logger.Named("bolt"), now: time.Now}, nil
}

// Close releases the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func getJSON(b *bolt.Bucket, key []byte, dst any) error {
	v := b.Get(key)
	if v == nil {
		return store.ErrNotFound
	}
	return json.Unmarshal(v, dst)
}

func putJSON(b *bolt.Bucket, key []byte, v any) error {
	enc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, enc)
}

func idKey(id uuid.UUID) []byte { return []byte(id.String()) }

// storedUser keeps the password hash, which models.User hides from JSON.
type storedUser struct {
	models.User
	HashedPassword string `json:"hashed_password"`
}

// User methods

func (s *BoltStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		byEmail := tx.Bucket(bucketUsersByEmail)
		email := strings.ToLower(strings.TrimSpace(user.Email))
		if byEmail.Get([]byte(email)) != nil {
			return store.ErrDuplicate
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = s.now()
		}
		if err := putJSON(tx.Bucket(bucketUsers), idKey(user.ID), storedUser{User: *user, HashedPassword: user.HashedPassword}); err != nil {
			return err
		}
		return byEmail.Put([]byte(email), idKey(user.ID))
	})
}

func (s *BoltStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var out *models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUsersByEmail).Get([]byte(strings.ToLower(strings.TrimSpace(email))))
		if id == nil {
			return store.ErrNotFound
		}
		u, err := readUser(tx, id)
		out = u
		return err
	})
	return out, err
}

func (s *BoltStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var out *models.User
	err := s.db.View(func(tx *bolt.Tx) error {
		u, err := readUser(tx, idKey(id))
		out = u
		return err
	})
	return out, err
}

func readUser(tx *bolt.Tx, key []byte) (*models.User, error) {
	var su storedUser
	if err := getJSON(tx.Bucket(bucketUsers), key, &su); err != nil {
		return nil, err
	}
	u := su.User
	u.HashedPassword = su.HashedPassword
	return &u, nil
}

// Workspace methods

func (s *BoltStore) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	if ws.ID == uuid.Nil {
		ws.ID = uuid.New()
	}
	now := s.now()
	ws.CreatedAt = now
	ws.UpdatedAt = now
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketWorkspaces), idKey(ws.ID), ws)
	})
}

func (s *BoltStore) GetWorkspaceByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	var ws models.Workspace
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketWorkspaces), idKey(id), &ws)
	})
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *BoltStore) ListWorkspacesByUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	list := make([]models.Workspace, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWorkspaces).ForEach(func(k, v []byte) error {
			var ws models.Workspace
			if err := json.Unmarshal(v, &ws); err != nil {
				s.logger.Warn("Skipping malformed workspace record", zap.ByteString("key", k), zap.Error(err))
				return nil
			}
			if ws.UserID == userID {
				list = append(list, ws)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list, nil
}

func (s *BoltStore) UpdateWorkspace(ctx context.Context, arg store.UpdateWorkspaceParams) (*models.Workspace, error) {
	var ws models.Workspace
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkspaces)
		if err := getJSON(b, idKey(arg.ID), &ws); err != nil {
			return err
		}
		if arg.Title != nil {
			ws.Title = *arg.Title
		}
		if arg.StartupIdeaText != nil {
			ws.StartupIdeaText = *arg.StartupIdeaText
		}
		ws.UpdatedAt = s.now()
		return putJSON(b, idKey(ws.ID), ws)
	})
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// Conversation methods

func (s *BoltStore) GetConversationByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*models.Conversation, error) {
	var c models.Conversation
	err := s.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketConversations), idKey(workspaceID), &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BoltStore) AppendMessages(ctx context.Context, workspaceID uuid.UUID, msgs ...models.ConversationMessage) (*models.Conversation, error) {
	var c models.Conversation
	err := s.db.Update(func(tx *bolt.Tx) error {
		wsBucket := tx.Bucket(bucketWorkspaces)
		var ws models.Workspace
		if err := getJSON(wsBucket, idKey(workspaceID), &ws); err != nil {
			return err
		}

		b := tx.Bucket(bucketConversations)
		switch err := getJSON(b, idKey(workspaceID), &c); {
		case err == store.ErrNotFound:
			c = models.Conversation{
				ID:          uuid.New(),
				WorkspaceID: workspaceID,
				Messages:    []models.ConversationMessage{},
				CreatedAt:   s.now(),
			}
		case err != nil:
			return err
		}
		c.Messages = append(c.Messages, msgs...)
		if err := putJSON(b, idKey(workspaceID), c); err != nil {
			return err
		}

		ws.UpdatedAt = s.now()
		return putJSON(wsBucket, idKey(workspaceID), ws)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Agent output methods

func (s *BoltStore) readOutputs(tx *bolt.Tx, workspaceID uuid.UUID) (map[models.AgentType]models.AgentOutput, error) {
	outputs := map[models.AgentType]models.AgentOutput{}
	if err := getJSON(tx.Bucket(bucketAgentOutputs), idKey(workspaceID), &outputs); err != nil && err != store.ErrNotFound {
		return nil, err
	}
	return outputs, nil
}

func (s *BoltStore) fillOutput(o *models.AgentOutput, workspaceID uuid.UUID) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.WorkspaceID = workspaceID
	o.CreatedAt = s.now()
}

func (s *BoltStore) ReplaceAgentOutputs(ctx context.Context, workspaceID uuid.UUID, outputs []models.AgentOutput) error {
	byType := make(map[models.AgentType]models.AgentOutput, len(outputs))
	for _, o := range outputs {
		s.fillOutput(&o, workspaceID)
		byType[o.AgentType] = o
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketAgentOutputs), idKey(workspaceID), byType)
	})
}

func (s *BoltStore) UpsertAgentOutput(ctx context.Context, output *models.AgentOutput) error {
	s.fillOutput(output, output.WorkspaceID)
	return s.db.Update(func(tx *bolt.Tx) error {
		byType, err := s.readOutputs(tx, output.WorkspaceID)
		if err != nil {
			return err
		}
		byType[output.AgentType] = *output
		return putJSON(tx.Bucket(bucketAgentOutputs), idKey(output.WorkspaceID), byType)
	})
}

func (s *BoltStore) ListAgentOutputs(ctx context.Context, workspaceID uuid.UUID) ([]models.AgentOutput, error) {
	var byType map[models.AgentType]models.AgentOutput
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		byType, err = s.readOutputs(tx, workspaceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	list := make([]models.AgentOutput, 0, len(byType))
	for _, t := range models.AgentTypes {
		if o, ok := byType[t]; ok {
			list = append(list, o)
		}
	}
	return list, nil
}

// Agent chat methods

func (s *BoltStore) CreateAgentChat(ctx context.Context, chat *models.AgentChat) error {
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	chat.CreatedAt = s.now()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAgentChats)
		var chats []models.AgentChat
		if err := getJSON(b, idKey(chat.WorkspaceID), &chats); err != nil && err != store.ErrNotFound {
			return err
		}
		chats = append(chats, *chat)
		return putJSON(b, idKey(chat.WorkspaceID), chats)
	})
}

func (s *BoltStore) ListAgentChats(ctx context.Context, workspaceID uuid.UUID, agentType models.AgentType) ([]models.AgentChat, error) {
	var chats []models.AgentChat
	err := s.db.View(func(tx *bolt.Tx) error {
		err := getJSON(tx.Bucket(bucketAgentChats), idKey(workspaceID), &chats)
		if err == store.ErrNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	chats = slices.DeleteFunc(chats, func(c models.AgentChat) bool { return c.AgentType != agentType })
	if chats == nil {
		chats = make([]models.AgentChat, 0)
	}
	return chats, nil
}
