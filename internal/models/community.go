package models

import "time"

// Community is a tenant: it owns chat users and authenticates with an API key.
type Community struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// APIKey authenticates a community. Exactly one key exists per community.
type APIKey struct {
	ID          string    `db:"id" json:"id"`
	CommunityID string    `db:"community_id" json:"community_id"`
	Key         string    `db:"key" json:"key"`
	UpToDate    bool      `db:"up_to_date" json:"up_to_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
