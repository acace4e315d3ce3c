package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-backend/internal/repositories"
)

// APIKeyMiddleware resolves the X-API-Key header to a community and stores
// its ID on the request context. A key marked stale no longer grants access
// even though its record still exists.
func APIKeyMiddleware(apiKeys repositories.APIKeyRepository, communities repositories.CommunityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing api key"})
			return
		}

		apiKey, err := apiKeys.GetByKey(c.Request.Context(), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		if !apiKey.UpToDate {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "api key is no longer valid"})
			return
		}

		community, err := communities.GetCommunityByAPIKey(c.Request.Context(), apiKey.Key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "api key does not belong to a community"})
			return
		}

		c.Set("communityID", community.ID)
		c.Next()
	}
}
