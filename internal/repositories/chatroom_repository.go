package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
)

var ErrRoomNotFound = apperrors.New(apperrors.NotFound, "chatroom not found")

// ChatRoomRepository abstracts chatroom persistence. The membership join
// table is the sole source of truth for "is user X in room Y".
type ChatRoomRepository interface {
	CreateOrGetRoom(ctx context.Context, memberIDs []string) (models.ChatRoom, error)
	GetRoom(ctx context.Context, id string) (models.ChatRoom, error)
	IsMember(ctx context.Context, userID string, roomID string) (bool, error)
	ListRoomsForUser(ctx context.Context, userID string) ([]models.ChatRoom, error)
}

// ChatRoomRepo is a sqlx implementation of ChatRoomRepository.
type ChatRoomRepo struct {
	db *sqlx.DB
}

// NewChatRoomRepo constructs a ChatRoomRepo.
func NewChatRoomRepo(db *sqlx.DB) *ChatRoomRepo {
	return &ChatRoomRepo{db: db}
}

// CreateOrGetRoom returns the room holding exactly the given member set,
// creating it when none exists. Matching is order-independent and
// exact-size: a superset or subset of an existing room is a new room.
func (r *ChatRoomRepo) CreateOrGetRoom(ctx context.Context, memberIDs []string) (models.ChatRoom, error) {
	members := lo.Uniq(memberIDs)

	roomID, err := r.findRoomByMembers(ctx, members)
	if err == nil {
		return r.GetRoom(ctx, roomID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.ChatRoom{}, err
	}

	log.Printf("creating chatroom for %v", members)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.ChatRoom{}, err
	}
	defer tx.Rollback()

	var room models.ChatRoom
	if err := tx.GetContext(ctx, &room,
		`INSERT INTO chat_rooms (id) VALUES ($1) RETURNING id, created_at, updated_at`,
		uuid.NewString()); err != nil {
		return models.ChatRoom{}, err
	}
	for _, userID := range members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chat_room_users (chat_room_id, chat_user_id) VALUES ($1, $2)`,
			room.ID, userID); err != nil {
			return models.ChatRoom{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.ChatRoom{}, err
	}

	return r.GetRoom(ctx, room.ID)
}

// findRoomByMembers resolves the room whose member set equals ids exactly:
// same size and every member contained in ids.
func (r *ChatRoomRepo) findRoomByMembers(ctx context.Context, ids []string) (string, error) {
	var roomID string
	query := `SELECT chat_room_id FROM chat_room_users
        GROUP BY chat_room_id
        HAVING COUNT(*) = $1
           AND COUNT(*) FILTER (WHERE chat_user_id = ANY($2)) = $1`
	err := r.db.GetContext(ctx, &roomID, query, len(ids), pq.Array(ids))
	return roomID, err
}

// GetRoom fetches a room with its member set loaded.
func (r *ChatRoomRepo) GetRoom(ctx context.Context, id string) (models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.GetContext(ctx, &room, `SELECT id, created_at, updated_at FROM chat_rooms WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ChatRoom{}, ErrRoomNotFound
	}
	if err != nil {
		return models.ChatRoom{}, err
	}

	query := `SELECT u.id, u.community_id, u.external_id, u.created_at, u.updated_at
        FROM chat_users u
        JOIN chat_room_users ru ON ru.chat_user_id = u.id
        WHERE ru.chat_room_id=$1`
	if err := r.db.SelectContext(ctx, &room.Members, query, id); err != nil {
		return models.ChatRoom{}, err
	}
	return room, nil
}

// IsMember checks the membership record for (user, room).
func (r *ChatRoomRepo) IsMember(ctx context.Context, userID string, roomID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_room_users WHERE chat_room_id=$1 AND chat_user_id=$2)`,
		roomID, userID)
	return exists, err
}

// ListRoomsForUser returns the rooms a user belongs to, members included.
func (r *ChatRoomRepo) ListRoomsForUser(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	query := `SELECT rm.id, rm.created_at, rm.updated_at FROM chat_rooms rm
        JOIN chat_room_users ru ON ru.chat_room_id = rm.id
        WHERE ru.chat_user_id=$1
        ORDER BY rm.created_at DESC`
	if err := r.db.SelectContext(ctx, &rooms, query, userID); err != nil {
		return nil, err
	}

	for i := range rooms {
		loaded, err := r.GetRoom(ctx, rooms[i].ID)
		if err != nil {
			return nil, err
		}
		rooms[i].Members = loaded.Members
	}
	return rooms, nil
}
