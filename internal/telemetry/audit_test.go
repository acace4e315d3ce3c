package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chat-backend/internal/mocks"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.chat", "chat-backend", "test")

	communityID := "comm-1"
	publisher.On("Publish", mock.Anything, "audit.chat", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		return ok &&
			envelope.SchemaVersion == 1 &&
			envelope.EventType == "audit_log" &&
			envelope.Service == "chat-backend" &&
			envelope.Environment == "test" &&
			envelope.RequestID == "req-1" &&
			envelope.CommunityID != nil && *envelope.CommunityID == "comm-1" &&
			envelope.Payload.Level == "INFO" &&
			envelope.Payload.Text == "community created"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "INFO", "community created", "req-1", &communityID)
	publisher.AssertExpectations(t)
}

func TestEmitPublishErrorIsSwallowed(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.chat", "chat-backend", "test")

	publisher.On("Publish", mock.Anything, "audit.chat", mock.Anything).Return(assert.AnError).Once()

	emitter.Emit(context.Background(), "ERROR", "boom", "req-1", nil)
	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterAndPublisherNoop(t *testing.T) {
	var emitter *AuditEmitter
	emitter.Emit(context.Background(), "INFO", "ignored", "req-1", nil)

	publisher := new(mocks.PublisherMock)
	NewAuditEmitter(nil, "audit.chat", "chat-backend", "test").Emit(context.Background(), "INFO", "ignored", "req-1", nil)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}
