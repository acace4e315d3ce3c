package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
	"chat-backend/internal/observability"
)

// Inbound and outbound event names on the realtime surface.
const (
	EventJoinRoom       = "join_room"
	EventLeaveRoom      = "leave_room"
	EventSendMessage    = "send_message"
	EventTyping         = "typing"
	EventGet            = "get"
	EventReceiveMessage = "receive_message"
	EventGetMessage     = "get_message"
	EventError          = "error"
)

// MessageSender is the pipeline surface the gateway drives.
type MessageSender interface {
	Send(ctx context.Context, senderID string, chatroomID string, value string) (models.Message, error)
	History(ctx context.Context, chatroomID string) ([]models.Message, error)
}

type eventEnvelope struct {
	Event string `json:"event"`
}

type joinRoomPayload struct {
	ChatroomID string `json:"chatroomId" validate:"required"`
}

type sendMessagePayload struct {
	Sender     string `json:"sender" validate:"required"`
	ChatroomID string `json:"chatroomId" validate:"required"`
	Value      string `json:"value" validate:"required"`
}

type typingPayload struct {
	ChatroomID string `json:"chatroomId" validate:"required"`
	IsTyping   bool   `json:"isTyping"`
}

type historyPayload struct {
	ChatroomID string `json:"chatroomId" validate:"required"`
}

// Gateway routes inbound connection events to the hub and the message
// pipeline and acknowledges failures to the triggering connection only.
type Gateway struct {
	hub      *Hub
	pipeline MessageSender
	validate *validator.Validate
}

// NewGateway constructs a Gateway.
func NewGateway(hub *Hub, pipeline MessageSender) *Gateway {
	return &Gateway{hub: hub, pipeline: pipeline, validate: validator.New()}
}

// Hub exposes the presence coordinator the gateway drives.
func (g *Gateway) Hub() *Hub {
	return g.hub
}

// Run services one connection until it closes: read, dispatch, repeat.
// On exit the connection is swept from every room it joined.
func (g *Gateway) Run(ctx context.Context, client *Client, conn *websocket.Conn) {
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	g.publishLifecycle(ctx, client, "ws_connect", "")

	var closeReason string
	defer func() {
		g.hub.RemoveClient(client)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		g.publishLifecycle(ctx, client, "ws_disconnect", closeReason)
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				g.publishLifecycle(ctx, client, "ws_error", closeReason)
			}
			return
		}
		g.dispatch(ctx, client, payload)
	}
}

func (g *Gateway) dispatch(ctx context.Context, client *Client, payload []byte) {
	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		g.sendError(client, apperrors.Wrap(apperrors.InvalidRequest, "malformed event", err))
		return
	}
	observability.IncWSEvent(envelope.Event)

	switch envelope.Event {
	case EventJoinRoom:
		var p joinRoomPayload
		if !g.decode(client, payload, &p) {
			return
		}
		g.hub.Join(p.ChatroomID, client)

	case EventLeaveRoom:
		var p joinRoomPayload
		if !g.decode(client, payload, &p) {
			return
		}
		g.hub.Leave(p.ChatroomID, client)

	case EventSendMessage:
		var p sendMessagePayload
		if !g.decode(client, payload, &p) {
			return
		}
		// The pipeline broadcasts on success; failures reach only the sender.
		if _, err := g.pipeline.Send(ctx, p.Sender, p.ChatroomID, p.Value); err != nil {
			log.Printf("send_message failed for connection %s: %v", client.ID(), err)
			g.sendError(client, err)
		}

	case EventTyping:
		var p typingPayload
		if !g.decode(client, payload, &p) {
			return
		}
		g.hub.BroadcastTyping(p.ChatroomID, client, p.IsTyping)

	case EventGet:
		var p historyPayload
		if !g.decode(client, payload, &p) {
			return
		}
		msgs, err := g.pipeline.History(ctx, p.ChatroomID)
		if err != nil {
			log.Printf("history fetch failed for chatroom %s: %v", p.ChatroomID, err)
			g.sendError(client, err)
			return
		}
		g.hub.BroadcastHistory(p.ChatroomID, msgs)

	default:
		g.sendError(client, apperrors.Newf(apperrors.InvalidRequest, "unknown event %q", envelope.Event))
	}
}

// decode unmarshals and validates an event payload, acknowledging a bad
// payload to the sender.
func (g *Gateway) decode(client *Client, payload []byte, dest any) bool {
	if err := json.Unmarshal(payload, dest); err != nil {
		g.sendError(client, apperrors.Wrap(apperrors.InvalidRequest, "malformed event payload", err))
		return false
	}
	if err := g.validate.Struct(dest); err != nil {
		g.sendError(client, apperrors.Wrap(apperrors.InvalidRequest, "invalid event payload", err))
		return false
	}
	return true
}

func (g *Gateway) sendError(client *Client, err error) {
	code := string(apperrors.KindOf(err))
	if code == "" {
		code = "internal"
	}
	event := models.RoomEvent{Event: EventError, Error: err.Error(), Code: code}
	if writeErr := client.writeJSON(event); writeErr != nil {
		log.Printf("websocket error ack failed: %v", writeErr)
	}
}

func (g *Gateway) publishLifecycle(ctx context.Context, client *Client, name string, reason string) {
	info := client.Info()
	_ = observability.PublishEvent(ctx, wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: name,
		Payload: observability.WSEventPayload{
			CommunityID: info.CommunityID,
			ConnID:      info.ConnID,
			Event:       name,
			DurationMS:  time.Since(info.ConnectedAt).Milliseconds(),
			Reason:      reason,
			IP:          info.IP,
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
