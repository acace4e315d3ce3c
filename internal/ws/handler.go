package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chat-backend/internal/observability"
	"chat-backend/internal/repositories"
)

// Handler upgrades authenticated HTTP requests into gateway connections.
type Handler struct {
	gateway     *Gateway
	communities repositories.CommunityRepository
}

// NewHandler constructs a Handler.
func NewHandler(gateway *Gateway, communities repositories.CommunityRepository) *Handler {
	return &Handler{gateway: gateway, communities: communities}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates the community API key, upgrades the connection and
// hands it to the gateway.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	key := c.GetHeader("X-API-Key")
	if key == "" {
		key = c.Query("api_key")
	}
	if key == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing api key"})
		return
	}

	community, err := h.communities.GetCommunityByAPIKey(ctx, key)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		CommunityID: community.ID,
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	client := NewClient(conn, info)

	// The gateway outlives this handler; the request context is canceled
	// as soon as Handle returns, so the connection gets a detached context
	// that keeps the trace values.
	go h.gateway.Run(context.WithoutCancel(ctx), client, conn)
}
