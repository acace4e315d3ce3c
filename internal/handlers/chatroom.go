package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
	"chat-backend/internal/repositories"
)

// HistorySource is the message pipeline's read path: persisted messages,
// decrypted before they reach a caller.
type HistorySource interface {
	History(ctx context.Context, chatroomID string) ([]models.Message, error)
}

// ChatRoomHandler manages chatroom endpoints behind the API-key middleware.
type ChatRoomHandler struct {
	rooms    repositories.ChatRoomRepository
	users    repositories.ChatUserRepository
	messages repositories.MessageRepository
	history  HistorySource
}

// NewChatRoomHandler builds a ChatRoomHandler.
func NewChatRoomHandler(rooms repositories.ChatRoomRepository, users repositories.ChatUserRepository, messages repositories.MessageRepository, history HistorySource) *ChatRoomHandler {
	return &ChatRoomHandler{rooms: rooms, users: users, messages: messages, history: history}
}

// CreateChatRoom creates a room for the given member set, or returns the
// existing room when one already holds exactly that set.
func (h *ChatRoomHandler) CreateChatRoom(c *gin.Context) {
	var req struct {
		MemberIDs []string `json:"member_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exist, err := h.users.UsersExist(c.Request.Context(), req.MemberIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !exist {
		abortWithError(c, apperrors.New(apperrors.InvalidRequest, "at least one of the users does not exist"))
		return
	}

	room, err := h.rooms.CreateOrGetRoom(c.Request.Context(), req.MemberIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// A freshly created room carries no member entities yet.
	if len(room.Members) == 0 {
		members, err := h.users.GetChatUsers(c.Request.Context(), req.MemberIDs)
		if err != nil {
			abortWithError(c, err)
			return
		}
		room.Members = members
	}
	c.JSON(http.StatusOK, room)
}

// ListChatRooms returns the rooms a chat user belongs to.
func (h *ChatRoomHandler) ListChatRooms(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	rooms, err := h.rooms.ListRoomsForUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chatrooms": rooms})
}

// GetRoomMessages returns a room's decrypted history, oldest first.
func (h *ChatRoomHandler) GetRoomMessages(c *gin.Context) {
	msgs, err := h.history.History(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkMessageRead flips a message's read flag.
func (h *ChatRoomHandler) MarkMessageRead(c *gin.Context) {
	if err := h.messages.MarkRead(c.Request.Context(), c.Param("message_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
