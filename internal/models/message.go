package models

import "time"

// Message is a chat message. Value holds ciphertext at rest; the pipeline
// swaps in plaintext before a message ever reaches a caller.
type Message struct {
	ID         string    `db:"id" json:"id"`
	ChatRoomID string    `db:"chat_room_id" json:"chatroom_id"`
	SenderID   string    `db:"sender_id" json:"sender"`
	Value      string    `db:"value" json:"value"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
