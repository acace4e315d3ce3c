package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
)

var (
	ErrCommunityNotFound  = apperrors.New(apperrors.NotFound, "community not found")
	ErrCommunityNameTaken = apperrors.New(apperrors.Conflict, "community name already exists")
)

// CommunityRepository abstracts community persistence.
type CommunityRepository interface {
	CreateCommunity(ctx context.Context, name string) (models.Community, error)
	GetCommunity(ctx context.Context, id string) (models.Community, error)
	GetCommunityByAPIKey(ctx context.Context, key string) (models.Community, error)
	ListCommunities(ctx context.Context) ([]models.Community, error)
	RenameCommunity(ctx context.Context, id string, name string) (models.Community, error)
	DeleteCommunity(ctx context.Context, id string) error
}

// CommunityRepo is a sqlx implementation of CommunityRepository.
type CommunityRepo struct {
	db *sqlx.DB
}

// NewCommunityRepo constructs a CommunityRepo.
func NewCommunityRepo(db *sqlx.DB) *CommunityRepo {
	return &CommunityRepo{db: db}
}

// CreateCommunity inserts a community with a unique name.
func (r *CommunityRepo) CreateCommunity(ctx context.Context, name string) (models.Community, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM communities WHERE name=$1)`, name); err != nil {
		return models.Community{}, err
	}
	if exists {
		return models.Community{}, ErrCommunityNameTaken
	}

	var community models.Community
	err := r.db.GetContext(ctx, &community,
		`INSERT INTO communities (id, name) VALUES ($1, $2) RETURNING id, name, created_at, updated_at`,
		uuid.NewString(), name)
	if isUniqueViolation(err) {
		return models.Community{}, ErrCommunityNameTaken
	}
	return community, err
}

// GetCommunity fetches a community by id.
func (r *CommunityRepo) GetCommunity(ctx context.Context, id string) (models.Community, error) {
	var community models.Community
	err := r.db.GetContext(ctx, &community, `SELECT id, name, created_at, updated_at FROM communities WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Community{}, ErrCommunityNotFound
	}
	return community, err
}

// GetCommunityByAPIKey resolves the community owning the given key.
func (r *CommunityRepo) GetCommunityByAPIKey(ctx context.Context, key string) (models.Community, error) {
	var community models.Community
	query := `SELECT c.id, c.name, c.created_at, c.updated_at FROM communities c
        JOIN api_keys k ON k.community_id = c.id
        WHERE k.key=$1`
	err := r.db.GetContext(ctx, &community, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Community{}, ErrCommunityNotFound
	}
	return community, err
}

// ListCommunities returns all communities.
func (r *CommunityRepo) ListCommunities(ctx context.Context) ([]models.Community, error) {
	var communities []models.Community
	err := r.db.SelectContext(ctx, &communities, `SELECT id, name, created_at, updated_at FROM communities ORDER BY created_at DESC`)
	return communities, err
}

// RenameCommunity updates the community name.
func (r *CommunityRepo) RenameCommunity(ctx context.Context, id string, name string) (models.Community, error) {
	var community models.Community
	err := r.db.GetContext(ctx, &community,
		`UPDATE communities SET name=$2, updated_at=NOW() WHERE id=$1 RETURNING id, name, created_at, updated_at`,
		id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Community{}, ErrCommunityNotFound
	}
	if isUniqueViolation(err) {
		return models.Community{}, ErrCommunityNameTaken
	}
	return community, err
}

// DeleteCommunity removes a community; keys, users and rooms cascade.
func (r *CommunityRepo) DeleteCommunity(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM communities WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCommunityNotFound
	}
	return nil
}
