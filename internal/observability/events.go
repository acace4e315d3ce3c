package observability

// EventEnvelope wraps a websocket lifecycle event for the topic exchange.
type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

// WSEventPayload describes one connection lifecycle transition.
type WSEventPayload struct {
	CommunityID string `json:"community_id"`
	ConnID      string `json:"conn_id"`
	Event       string `json:"event"`
	DurationMS  int64  `json:"duration_ms"`
	Reason      string `json:"reason"`
	IP          string `json:"ip"`
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
