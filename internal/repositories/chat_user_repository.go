package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
)

var (
	ErrChatUserNotFound = apperrors.New(apperrors.NotFound, "chat user not found")
	ErrExternalIDTaken  = apperrors.New(apperrors.Conflict, "external id already registered for this community")
)

// ChatUserRepository abstracts chat user persistence.
type ChatUserRepository interface {
	CreateChatUser(ctx context.Context, communityID string, externalID string) (models.ChatUser, error)
	GetChatUser(ctx context.Context, id string) (models.ChatUser, error)
	GetChatUsers(ctx context.Context, ids []string) ([]models.ChatUser, error)
	UsersExist(ctx context.Context, ids []string) (bool, error)
	UpdateExternalID(ctx context.Context, id string, externalID string) (models.ChatUser, error)
	DeleteChatUser(ctx context.Context, id string) error
}

// ChatUserRepo is a sqlx implementation of ChatUserRepository.
type ChatUserRepo struct {
	db *sqlx.DB
}

// NewChatUserRepo constructs a ChatUserRepo.
func NewChatUserRepo(db *sqlx.DB) *ChatUserRepo {
	return &ChatUserRepo{db: db}
}

// CreateChatUser registers an external participant for a community.
func (r *ChatUserRepo) CreateChatUser(ctx context.Context, communityID string, externalID string) (models.ChatUser, error) {
	var user models.ChatUser
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO chat_users (id, community_id, external_id) VALUES ($1, $2, $3)
         RETURNING id, community_id, external_id, created_at, updated_at`,
		uuid.NewString(), communityID, externalID)
	if isUniqueViolation(err) {
		return models.ChatUser{}, ErrExternalIDTaken
	}
	return user, err
}

// GetChatUser fetches a chat user by id.
func (r *ChatUserRepo) GetChatUser(ctx context.Context, id string) (models.ChatUser, error) {
	var user models.ChatUser
	err := r.db.GetContext(ctx, &user,
		`SELECT id, community_id, external_id, created_at, updated_at FROM chat_users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatUser{}, ErrChatUserNotFound
	}
	return user, err
}

// GetChatUsers fetches multiple chat users in one query.
func (r *ChatUserRepo) GetChatUsers(ctx context.Context, ids []string) ([]models.ChatUser, error) {
	if len(ids) == 0 {
		return []models.ChatUser{}, nil
	}
	var users []models.ChatUser
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, community_id, external_id, created_at, updated_at FROM chat_users WHERE id = ANY($1)`,
		pq.Array(ids))
	return users, err
}

// UsersExist reports whether every id resolves to a chat user.
func (r *ChatUserRepo) UsersExist(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM chat_users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return false, err
	}
	return count == len(ids), nil
}

// UpdateExternalID replaces the externally-supplied identifier.
func (r *ChatUserRepo) UpdateExternalID(ctx context.Context, id string, externalID string) (models.ChatUser, error) {
	var user models.ChatUser
	err := r.db.GetContext(ctx, &user,
		`UPDATE chat_users SET external_id=$2, updated_at=NOW() WHERE id=$1
         RETURNING id, community_id, external_id, created_at, updated_at`,
		id, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatUser{}, ErrChatUserNotFound
	}
	if isUniqueViolation(err) {
		return models.ChatUser{}, ErrExternalIDTaken
	}
	return user, err
}

// DeleteChatUser removes a chat user.
func (r *ChatUserRepo) DeleteChatUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrChatUserNotFound
	}
	return nil
}
