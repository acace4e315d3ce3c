package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-backend/internal/repositories"
	"chat-backend/internal/telemetry"
)

// CommunityHandler manages tenant lifecycle endpoints.
type CommunityHandler struct {
	communities repositories.CommunityRepository
	apiKeys     repositories.APIKeyRepository
	audit       *telemetry.AuditEmitter
}

// NewCommunityHandler builds a CommunityHandler.
func NewCommunityHandler(communities repositories.CommunityRepository, apiKeys repositories.APIKeyRepository, audit *telemetry.AuditEmitter) *CommunityHandler {
	return &CommunityHandler{communities: communities, apiKeys: apiKeys, audit: audit}
}

// CreateCommunity registers a community and generates its API key.
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	community, err := h.communities.CreateCommunity(c.Request.Context(), req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	apiKey, err := h.apiKeys.GenerateForCommunity(c.Request.Context(), community.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "community created: "+community.Name, requestIDFromContext(c), &community.ID)
	c.JSON(http.StatusCreated, gin.H{"community": community, "api_key": apiKey.Key})
}

// ListCommunities returns all communities.
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	communities, err := h.communities.ListCommunities(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// GetCommunity fetches one community by id.
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	community, err := h.communities.GetCommunity(c.Request.Context(), c.Param("community_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// GetCommunityAPIKey returns the key owned by a community.
func (h *CommunityHandler) GetCommunityAPIKey(c *gin.Context) {
	if _, err := h.communities.GetCommunity(c.Request.Context(), c.Param("community_id")); err != nil {
		abortWithError(c, err)
		return
	}

	apiKey, err := h.apiKeys.GetForCommunity(c.Request.Context(), c.Param("community_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiKey)
}

// UpdateCommunity renames a community.
func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	community, err := h.communities.RenameCommunity(c.Request.Context(), c.Param("community_id"), req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// DeleteCommunity removes a community and everything it owns.
func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	id := c.Param("community_id")
	if err := h.communities.DeleteCommunity(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "community deleted: "+id, requestIDFromContext(c), &id)
	c.Status(http.StatusNoContent)
}
