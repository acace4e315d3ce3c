package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ConnInfo describes one live connection for logging and event publishing.
type ConnInfo struct {
	ConnID      string
	CommunityID string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// messageWriter is the write side of a websocket connection.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live connection. Writes are serialized: gorilla supports
// at most one concurrent writer per connection.
type Client struct {
	info    ConnInfo
	conn    messageWriter
	writeMu sync.Mutex
}

// NewClient wraps a connection for the hub.
func NewClient(conn messageWriter, info ConnInfo) *Client {
	return &Client{info: info, conn: conn}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.info.ConnID
}

// Info returns the connection metadata.
func (c *Client) Info() ConnInfo {
	return c.info
}

func (c *Client) writeJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *Client) close() {
	_ = c.conn.Close()
}

func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
