package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tinyceo-backend/internal/models"
	"tinyceo-backend/internal/store"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger.Named("postgres")}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("database error ensuring schema: %w", err)
	}
	return nil
}

// pgCode returns the PostgreSQL error code of err, or "" when err is not a PgError.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// --- User Methods ---

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, hashed_password)
VALUES ($1, $2, $3)
RETURNING created_at;
`

// CreateUser inserts a new user record into the database.
// Returns store.ErrDuplicate if the email is already registered.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))

	err := s.db.QueryRow(ctx, createUser, user.ID, email, user.HashedPassword).Scan(&user.CreatedAt)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return store.ErrDuplicate
		}
		s.logger.Error("CreateUser failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("database error creating user: %w", err)
	}
	return nil
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, hashed_password, created_at
FROM users
WHERE email = $1;
`

// GetUserByEmail retrieves a user by their email address.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, getUserByEmail, strings.ToLower(strings.TrimSpace(email)))
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, hashed_password, created_at
FROM users
WHERE id = $1;
`

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getUser(ctx, getUserByID, id)
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

// --- Workspace Methods ---

const workspaceColumns = `id, user_id, title, startup_idea_text, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*models.Workspace, error) {
	var w models.Workspace
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Title,
		&w.StartupIdeaText,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

const createWorkspace = `-- name: CreateWorkspace :one
INSERT INTO workspaces (id, user_id, title, startup_idea_text)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at;
`

func (s *PostgresStore) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	if ws.ID == uuid.Nil {
		ws.ID = uuid.New()
	}
	err := s.db.QueryRow(ctx, createWorkspace, ws.ID, ws.UserID, ws.Title, ws.StartupIdeaText).
		Scan(&ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		s.logger.Error("CreateWorkspace failed", zap.Stringer("user_id", ws.UserID), zap.Error(err))
		return fmt.Errorf("database error creating workspace: %w", err)
	}
	return nil
}

const getWorkspaceByID = `-- name: GetWorkspaceByID :one
SELECT ` + workspaceColumns + `
FROM workspaces
WHERE id = $1;
`

func (s *PostgresStore) GetWorkspaceByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	w, err := scanWorkspace(s.db.QueryRow(ctx, getWorkspaceByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning workspace: %w", err)
	}
	return w, nil
}

const listWorkspacesByUser = `-- name: ListWorkspacesByUser :many
SELECT ` + workspaceColumns + `
FROM workspaces
WHERE user_id = $1
ORDER BY updated_at DESC;
`

func (s *PostgresStore) ListWorkspacesByUser(ctx context.Context, userID uuid.UUID) ([]models.Workspace, error) {
	rows, err := s.db.Query(ctx, listWorkspacesByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying workspaces: %w", err)
	}
	defer rows.Close()

	items := make([]models.Workspace, 0)
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning workspace row: %w", err)
		}
		items = append(items, *w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workspace rows: %w", err)
	}
	return items, nil
}

// UpdateWorkspace builds the query dynamically based on which fields are provided.
func (s *PostgresStore) UpdateWorkspace(ctx context.Context, arg store.UpdateWorkspaceParams) (*models.Workspace, error) {
	setClauses := []string{}
	args := []any{}
	argID := 1

	if arg.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *arg.Title)
		argID++
	}
	if arg.StartupIdeaText != nil {
		setClauses = append(setClauses, fmt.Sprintf("startup_idea_text = $%d", argID))
		args = append(args, *arg.StartupIdeaText)
		argID++
	}

	// Always bump updated_at so the workspace moves to the top of the list.
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, arg.ID)

	query := fmt.Sprintf(`-- name: UpdateWorkspace :one
		UPDATE workspaces
		SET %s
		WHERE id = $%d
		RETURNING %s;`,
		strings.Join(setClauses, ", "),
		argID,
		workspaceColumns,
	)

	w, err := scanWorkspace(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning updated workspace: %w", err)
	}
	return w, nil
}
