package messaging

import (
	"context"
	"log"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/models"
	"chat-backend/internal/repositories"
)

// Cipher is the crypto collaborator: deterministic, side-effect free.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Broadcaster fans a persisted message out to a room's live connections.
type Broadcaster interface {
	BroadcastMessage(chatroomID string, msg models.Message)
}

// Pipeline orchestrates validate -> encrypt -> persist -> broadcast for
// inbound messages and fetch -> decrypt for history reads. It owns no
// mutable state; every call is request-scoped.
type Pipeline struct {
	validator   *Validator
	cipher      Cipher
	messages    repositories.MessageRepository
	broadcaster Broadcaster
}

// NewPipeline constructs a Pipeline.
func NewPipeline(validator *Validator, cipher Cipher, messages repositories.MessageRepository, broadcaster Broadcaster) *Pipeline {
	return &Pipeline{
		validator:   validator,
		cipher:      cipher,
		messages:    messages,
		broadcaster: broadcaster,
	}
}

// Send validates, encrypts, persists, and finally broadcasts the plaintext
// to the room's current members. Any failure before persistence leaves no
// side effects; a broadcast failure never rolls persistence back.
func (p *Pipeline) Send(ctx context.Context, senderID string, chatroomID string, value string) (models.Message, error) {
	if _, _, err := p.validator.ValidateSend(ctx, senderID, chatroomID); err != nil {
		return models.Message{}, err
	}

	ciphertext, err := p.cipher.Encrypt(value)
	if err != nil {
		return models.Message{}, classify(err, apperrors.CryptoFailure, "encrypt message")
	}

	msg, err := p.messages.CreateMessage(ctx, chatroomID, senderID, ciphertext)
	if err != nil {
		return models.Message{}, classify(err, apperrors.Unavailable, "persist message")
	}

	log.Printf("message %s created in chatroom %s", msg.ID, chatroomID)

	// Live viewers get the plaintext; the store keeps only ciphertext.
	msg.Value = value
	if p.broadcaster != nil {
		p.broadcaster.BroadcastMessage(chatroomID, msg)
	}
	return msg, nil
}

// History returns the room's full message list, oldest first, decrypted.
// A single undecryptable record fails the whole call: a partially
// decrypted batch cannot be trusted by a caller.
func (p *Pipeline) History(ctx context.Context, chatroomID string) ([]models.Message, error) {
	if _, err := p.validator.ValidateRoom(ctx, chatroomID); err != nil {
		return nil, err
	}

	msgs, err := p.messages.ListRoomMessages(ctx, chatroomID)
	if err != nil {
		return nil, classify(err, apperrors.Unavailable, "load messages")
	}

	for i := range msgs {
		plaintext, err := p.cipher.Decrypt(msgs[i].Value)
		if err != nil {
			return nil, classify(err, apperrors.CryptoFailure, "decrypt message "+msgs[i].ID)
		}
		msgs[i].Value = plaintext
	}
	return msgs, nil
}

// classify keeps an already-kinded error untouched and wraps anything else.
func classify(err error, kind apperrors.Kind, message string) error {
	if apperrors.KindOf(err) != "" {
		return err
	}
	return apperrors.Wrap(kind, message, err)
}
