package messaging

import (
	"context"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
	"chat-backend/internal/repositories"
)

// Validator runs the pre-send checks in fixed order: sender exists,
// chatroom exists, sender is a member of the chatroom. The first failure
// aborts; the membership check only runs once both entities are known to
// exist, so a missing room can never surface as "not a member".
type Validator struct {
	users repositories.ChatUserRepository
	rooms repositories.ChatRoomRepository
}

// NewValidator constructs a Validator.
func NewValidator(users repositories.ChatUserRepository, rooms repositories.ChatRoomRepository) *Validator {
	return &Validator{users: users, rooms: rooms}
}

// ValidateSend returns the sender and room once all three checks pass.
func (v *Validator) ValidateSend(ctx context.Context, senderID string, chatroomID string) (models.ChatUser, models.ChatRoom, error) {
	sender, err := v.users.GetChatUser(ctx, senderID)
	if err != nil {
		return models.ChatUser{}, models.ChatRoom{}, err
	}

	room, err := v.rooms.GetRoom(ctx, chatroomID)
	if err != nil {
		return models.ChatUser{}, models.ChatRoom{}, err
	}

	member, err := v.rooms.IsMember(ctx, senderID, chatroomID)
	if err != nil {
		return models.ChatUser{}, models.ChatRoom{}, apperrors.Wrap(apperrors.Unavailable, "membership check failed", err)
	}
	if !member {
		return models.ChatUser{}, models.ChatRoom{}, apperrors.Newf(apperrors.InvalidRequest, "user %s is not part of chatroom %s", senderID, chatroomID)
	}

	return sender, room, nil
}

// ValidateRoom confirms a chatroom exists before its history is read.
func (v *Validator) ValidateRoom(ctx context.Context, chatroomID string) (models.ChatRoom, error) {
	return v.rooms.GetRoom(ctx, chatroomID)
}
