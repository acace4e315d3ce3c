package models

import "time"

// ChatUser is a community's external participant identity.
type ChatUser struct {
	ID          string    `db:"id" json:"id"`
	CommunityID string    `db:"community_id" json:"community_id"`
	ExternalID  string    `db:"external_id" json:"external_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
