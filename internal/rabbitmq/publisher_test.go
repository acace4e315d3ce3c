package rabbitmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-backend/internal/telemetry"
)

func TestNewPublisherFallsBackToNoop(t *testing.T) {
	publisher := NewPublisher("", "chat_events")

	assert.Equal(t, "noop", PublisherMode(publisher))
	assert.Equal(t, "empty amqp url", PublisherNoopReason(publisher))

	require.NoError(t, publisher.Publish(context.Background(), "audit.chat", telemetry.AuditEnvelope{EventType: "audit_log"}))
	require.NoError(t, publisher.Close())
}

func TestPublisherModeUnknown(t *testing.T) {
	assert.Equal(t, "unknown", PublisherMode(nil))
	assert.Empty(t, PublisherNoopReason(nil))
}
