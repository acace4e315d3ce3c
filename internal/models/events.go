package models

// RoomEvent is broadcast through websockets.
type RoomEvent struct {
	Event      string    `json:"event"`
	ChatroomID string    `json:"chatroomId,omitempty"`
	Message    *Message  `json:"message,omitempty"`
	Messages   []Message `json:"messages,omitempty"`
	IsTyping   *bool     `json:"isTyping,omitempty"`
	Error      string    `json:"error,omitempty"`
	Code       string    `json:"code,omitempty"`
}
