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

var ErrAPIKeyNotFound = apperrors.New(apperrors.NotFound, "api key not found")

// APIKeyRepository abstracts API key persistence.
type APIKeyRepository interface {
	GenerateForCommunity(ctx context.Context, communityID string) (models.APIKey, error)
	GetByKey(ctx context.Context, key string) (models.APIKey, error)
	GetForCommunity(ctx context.Context, communityID string) (models.APIKey, error)
}

// APIKeyRepo is a sqlx implementation of APIKeyRepository.
type APIKeyRepo struct {
	db *sqlx.DB
}

// NewAPIKeyRepo constructs an APIKeyRepo.
func NewAPIKeyRepo(db *sqlx.DB) *APIKeyRepo {
	return &APIKeyRepo{db: db}
}

// GenerateForCommunity creates a random key for the community, regenerating
// until the key is unique.
func (r *APIKeyRepo) GenerateForCommunity(ctx context.Context, communityID string) (models.APIKey, error) {
	var key string
	for {
		key = uuid.NewString()

		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM api_keys WHERE key=$1)`, key); err != nil {
			return models.APIKey{}, err
		}
		if !exists {
			break
		}
	}

	var apiKey models.APIKey
	err := r.db.GetContext(ctx, &apiKey,
		`INSERT INTO api_keys (id, community_id, key) VALUES ($1, $2, $3)
         RETURNING id, community_id, key, up_to_date, created_at`,
		uuid.NewString(), communityID, key)
	return apiKey, err
}

// GetByKey fetches an API key record by its value.
func (r *APIKeyRepo) GetByKey(ctx context.Context, key string) (models.APIKey, error) {
	var apiKey models.APIKey
	err := r.db.GetContext(ctx, &apiKey,
		`SELECT id, community_id, key, up_to_date, created_at FROM api_keys WHERE key=$1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.APIKey{}, ErrAPIKeyNotFound
	}
	return apiKey, err
}

// GetForCommunity fetches the key owned by a community.
func (r *APIKeyRepo) GetForCommunity(ctx context.Context, communityID string) (models.APIKey, error) {
	var apiKey models.APIKey
	err := r.db.GetContext(ctx, &apiKey,
		`SELECT id, community_id, key, up_to_date, created_at FROM api_keys WHERE community_id=$1`, communityID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.APIKey{}, ErrAPIKeyNotFound
	}
	return apiKey, err
}
