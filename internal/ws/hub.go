package ws

import (
	"context"
	"log"
	"sync"
	"time"

	"chat-backend/internal/models"
	"chat-backend/internal/observability"
)

const wsRoutingKey = "ws_events.chat"

// Hub owns the live room membership: chatroom id -> set of connections.
// It is the only process-wide mutable shared state; every access goes
// through the mutex. Membership here is runtime-only and rebuilt from
// scratch on restart.
type Hub struct {
	rooms       map[string]map[*Client]bool
	clientRooms map[*Client]map[string]bool
	mu          sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		clientRooms: make(map[*Client]map[string]bool),
	}
}

// Join adds the connection to a room. Joining a room the connection is
// already in is a logged no-op; it reports whether membership changed.
func (h *Hub) Join(chatroomID string, client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[chatroomID][client] {
		log.Printf("connection %s already joined chatroom %s", client.ID(), chatroomID)
		return false
	}

	if _, ok := h.rooms[chatroomID]; !ok {
		h.rooms[chatroomID] = make(map[*Client]bool)
	}
	h.rooms[chatroomID][client] = true

	if _, ok := h.clientRooms[client]; !ok {
		h.clientRooms[client] = make(map[string]bool)
	}
	h.clientRooms[client][chatroomID] = true
	return true
}

// Leave removes the connection from a room; unknown rooms and connections
// are no-ops.
func (h *Hub) Leave(chatroomID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(chatroomID, client)
}

func (h *Hub) removeLocked(chatroomID string, client *Client) {
	if conns, ok := h.rooms[chatroomID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.rooms, chatroomID)
		}
	}
	if rooms, ok := h.clientRooms[client]; ok {
		delete(rooms, chatroomID)
		if len(rooms) == 0 {
			delete(h.clientRooms, client)
		}
	}
}

// RemoveClient sweeps the connection out of every room it joined.
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for chatroomID := range h.clientRooms[client] {
		h.removeLocked(chatroomID, client)
	}
	delete(h.clientRooms, client)
}

// MembersOf returns a snapshot of a room's connections; never nil.
func (h *Hub) MembersOf(chatroomID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*Client, 0, len(h.rooms[chatroomID]))
	for client := range h.rooms[chatroomID] {
		members = append(members, client)
	}
	return members
}

// BroadcastMessage sends a persisted message to every connection currently
// in the room.
func (h *Hub) BroadcastMessage(chatroomID string, msg models.Message) {
	event := models.RoomEvent{Event: EventReceiveMessage, ChatroomID: chatroomID, Message: &msg}
	h.broadcast(chatroomID, nil, event)
	observability.IncMessageSent()
}

// BroadcastTyping sends the typing flag to every room member except the
// typing connection itself.
func (h *Hub) BroadcastTyping(chatroomID string, sender *Client, isTyping bool) {
	event := models.RoomEvent{Event: EventTyping, ChatroomID: chatroomID, IsTyping: &isTyping}
	h.broadcast(chatroomID, sender, event)
}

// BroadcastHistory replies with the decrypted message list to the room's
// current member set.
func (h *Hub) BroadcastHistory(chatroomID string, msgs []models.Message) {
	event := models.RoomEvent{Event: EventGetMessage, ChatroomID: chatroomID, Messages: msgs}
	h.broadcast(chatroomID, nil, event)
}

// broadcast reads the membership once, then fans out; a connection joining
// or leaving mid-fan-out sees no guarantee either way.
func (h *Hub) broadcast(chatroomID string, exclude *Client, event models.RoomEvent) {
	for _, client := range h.MembersOf(chatroomID) {
		if client == exclude {
			continue
		}
		if err := client.writeJSON(event); err != nil {
			log.Printf("websocket write error: %v", err)
			client.close()
			h.RemoveClient(client)
			h.publishWSError(client, err)
		}
	}
}

func (h *Hub) publishWSError(client *Client, err error) {
	info := client.Info()
	observability.IncWSEvent("ws_error")
	_ = observability.PublishEvent(context.Background(), wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload: observability.WSEventPayload{
			CommunityID: info.CommunityID,
			ConnID:      info.ConnID,
			Event:       "ws_error",
			DurationMS:  time.Since(info.ConnectedAt).Milliseconds(),
			Reason:      err.Error(),
			IP:          info.IP,
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
