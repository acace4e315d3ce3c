package models

import "time"

// ChatRoom is a set of chat users sharing a message history. The member set
// is canonical: two rooms never hold the exact same set of users.
type ChatRoom struct {
	ID        string     `db:"id" json:"id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	Members   []ChatUser `json:"members,omitempty"`
}
