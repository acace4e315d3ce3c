package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
)

var ErrMessageNotFound = apperrors.New(apperrors.NotFound, "message not found")

// MessageRepository defines interactions for chat messages. Value is
// ciphertext on the way in and on the way out; decryption is the
// pipeline's business.
type MessageRepository interface {
	CreateMessage(ctx context.Context, roomID string, senderID string, value string) (models.Message, error)
	ListRoomMessages(ctx context.Context, roomID string) ([]models.Message, error)
	MarkRead(ctx context.Context, messageID string) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message with the read flag defaulted to false.
func (r *MessageRepo) CreateMessage(ctx context.Context, roomID string, senderID string, value string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`INSERT INTO messages (id, chat_room_id, sender_id, value) VALUES ($1, $2, $3, $4)
         RETURNING id, chat_room_id, sender_id, value, read, created_at`,
		uuid.NewString(), roomID, senderID, value)
	return msg, err
}

// ListRoomMessages returns a room's messages in creation order, ascending.
func (r *MessageRepo) ListRoomMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_room_id, sender_id, value, read, created_at
         FROM messages WHERE chat_room_id=$1 ORDER BY created_at ASC`, roomID)
	return msgs, err
}

// MarkRead flips the read flag, the only mutation a message allows.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}
