package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-backend/internal/models"
	"chat-backend/internal/repositories"
)

// ChatUserHandler manages a community's external participants. Every route
// sits behind the API-key middleware; the community id comes from context.
type ChatUserHandler struct {
	users repositories.ChatUserRepository
}

// NewChatUserHandler builds a ChatUserHandler.
func NewChatUserHandler(users repositories.ChatUserRepository) *ChatUserHandler {
	return &ChatUserHandler{users: users}
}

// CreateChatUser registers an external participant for the community.
func (h *ChatUserHandler) CreateChatUser(c *gin.Context) {
	var req struct {
		ExternalID string `json:"external_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.CreateChatUser(c.Request.Context(), c.GetString("communityID"), req.ExternalID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetChatUser fetches one of the community's chat users.
func (h *ChatUserHandler) GetChatUser(c *gin.Context) {
	user, ok := h.ownedUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateChatUser replaces a chat user's external id.
func (h *ChatUserHandler) UpdateChatUser(c *gin.Context) {
	var req struct {
		ExternalID string `json:"external_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.ownedUser(c)
	if !ok {
		return
	}

	updated, err := h.users.UpdateExternalID(c.Request.Context(), user.ID, req.ExternalID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteChatUser removes a chat user.
func (h *ChatUserHandler) DeleteChatUser(c *gin.Context) {
	user, ok := h.ownedUser(c)
	if !ok {
		return
	}

	if err := h.users.DeleteChatUser(c.Request.Context(), user.ID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedUser loads the addressed user and hides users of other communities
// behind a not-found.
func (h *ChatUserHandler) ownedUser(c *gin.Context) (models.ChatUser, bool) {
	user, err := h.users.GetChatUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		abortWithError(c, err)
		return models.ChatUser{}, false
	}
	if user.CommunityID != c.GetString("communityID") {
		abortWithError(c, repositories.ErrChatUserNotFound)
		return models.ChatUser{}, false
	}
	return user, true
}
