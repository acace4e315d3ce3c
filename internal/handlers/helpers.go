package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat-backend/internal/apperrors"
)

const requestIDContextKey = "request_id"

func statusForError(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.InvalidRequest:
		return http.StatusBadRequest
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.Unavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func communityIDFromContext(c *gin.Context) *string {
	if id := c.GetString("communityID"); id != "" {
		return &id
	}
	return nil
}
