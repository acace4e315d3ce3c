package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chat-backend/internal/models"
	"chat-backend/internal/repositories"
)

type CommunityRepositoryMock struct {
	mock.Mock
}

func (m *CommunityRepositoryMock) CreateCommunity(ctx context.Context, name string) (models.Community, error) {
	args := m.Called(ctx, name)
	var community models.Community
	if val := args.Get(0); val != nil {
		community = val.(models.Community)
	}
	return community, args.Error(1)
}

func (m *CommunityRepositoryMock) GetCommunity(ctx context.Context, id string) (models.Community, error) {
	args := m.Called(ctx, id)
	var community models.Community
	if val := args.Get(0); val != nil {
		community = val.(models.Community)
	}
	return community, args.Error(1)
}

func (m *CommunityRepositoryMock) GetCommunityByAPIKey(ctx context.Context, key string) (models.Community, error) {
	args := m.Called(ctx, key)
	var community models.Community
	if val := args.Get(0); val != nil {
		community = val.(models.Community)
	}
	return community, args.Error(1)
}

func (m *CommunityRepositoryMock) ListCommunities(ctx context.Context) ([]models.Community, error) {
	args := m.Called(ctx)
	var list []models.Community
	if val := args.Get(0); val != nil {
		list = val.([]models.Community)
	}
	return list, args.Error(1)
}

func (m *CommunityRepositoryMock) RenameCommunity(ctx context.Context, id string, name string) (models.Community, error) {
	args := m.Called(ctx, id, name)
	var community models.Community
	if val := args.Get(0); val != nil {
		community = val.(models.Community)
	}
	return community, args.Error(1)
}

func (m *CommunityRepositoryMock) DeleteCommunity(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type APIKeyRepositoryMock struct {
	mock.Mock
}

func (m *APIKeyRepositoryMock) GenerateForCommunity(ctx context.Context, communityID string) (models.APIKey, error) {
	args := m.Called(ctx, communityID)
	var key models.APIKey
	if val := args.Get(0); val != nil {
		key = val.(models.APIKey)
	}
	return key, args.Error(1)
}

func (m *APIKeyRepositoryMock) GetByKey(ctx context.Context, key string) (models.APIKey, error) {
	args := m.Called(ctx, key)
	var apiKey models.APIKey
	if val := args.Get(0); val != nil {
		apiKey = val.(models.APIKey)
	}
	return apiKey, args.Error(1)
}

func (m *APIKeyRepositoryMock) GetForCommunity(ctx context.Context, communityID string) (models.APIKey, error) {
	args := m.Called(ctx, communityID)
	var apiKey models.APIKey
	if val := args.Get(0); val != nil {
		apiKey = val.(models.APIKey)
	}
	return apiKey, args.Error(1)
}

type ChatUserRepositoryMock struct {
	mock.Mock
}

func (m *ChatUserRepositoryMock) CreateChatUser(ctx context.Context, communityID string, externalID string) (models.ChatUser, error) {
	args := m.Called(ctx, communityID, externalID)
	var user models.ChatUser
	if val := args.Get(0); val != nil {
		user = val.(models.ChatUser)
	}
	return user, args.Error(1)
}

func (m *ChatUserRepositoryMock) GetChatUser(ctx context.Context, id string) (models.ChatUser, error) {
	args := m.Called(ctx, id)
	var user models.ChatUser
	if val := args.Get(0); val != nil {
		user = val.(models.ChatUser)
	}
	return user, args.Error(1)
}

func (m *ChatUserRepositoryMock) GetChatUsers(ctx context.Context, ids []string) ([]models.ChatUser, error) {
	args := m.Called(ctx, ids)
	var users []models.ChatUser
	if val := args.Get(0); val != nil {
		users = val.([]models.ChatUser)
	}
	return users, args.Error(1)
}

func (m *ChatUserRepositoryMock) UsersExist(ctx context.Context, ids []string) (bool, error) {
	args := m.Called(ctx, ids)
	return args.Bool(0), args.Error(1)
}

func (m *ChatUserRepositoryMock) UpdateExternalID(ctx context.Context, id string, externalID string) (models.ChatUser, error) {
	args := m.Called(ctx, id, externalID)
	var user models.ChatUser
	if val := args.Get(0); val != nil {
		user = val.(models.ChatUser)
	}
	return user, args.Error(1)
}

func (m *ChatUserRepositoryMock) DeleteChatUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ChatRoomRepositoryMock struct {
	mock.Mock
}

func (m *ChatRoomRepositoryMock) CreateOrGetRoom(ctx context.Context, memberIDs []string) (models.ChatRoom, error) {
	args := m.Called(ctx, memberIDs)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *ChatRoomRepositoryMock) GetRoom(ctx context.Context, id string) (models.ChatRoom, error) {
	args := m.Called(ctx, id)
	var room models.ChatRoom
	if val := args.Get(0); val != nil {
		room = val.(models.ChatRoom)
	}
	return room, args.Error(1)
}

func (m *ChatRoomRepositoryMock) IsMember(ctx context.Context, userID string, roomID string) (bool, error) {
	args := m.Called(ctx, userID, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRoomRepositoryMock) ListRoomsForUser(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	args := m.Called(ctx, userID)
	var rooms []models.ChatRoom
	if val := args.Get(0); val != nil {
		rooms = val.([]models.ChatRoom)
	}
	return rooms, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, roomID string, senderID string, value string) (models.Message, error) {
	args := m.Called(ctx, roomID, senderID, value)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListRoomMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	args := m.Called(ctx, roomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

type CipherMock struct {
	mock.Mock
}

func (m *CipherMock) Encrypt(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *CipherMock) Decrypt(ciphertext string) (string, error) {
	args := m.Called(ciphertext)
	return args.String(0), args.Error(1)
}

type BroadcasterMock struct {
	mock.Mock
}

func (m *BroadcasterMock) BroadcastMessage(chatroomID string, msg models.Message) {
	m.Called(chatroomID, msg)
}

type MessageSenderMock struct {
	mock.Mock
}

func (m *MessageSenderMock) Send(ctx context.Context, senderID string, chatroomID string, value string) (models.Message, error) {
	args := m.Called(ctx, senderID, chatroomID, value)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageSenderMock) History(ctx context.Context, chatroomID string) ([]models.Message, error) {
	args := m.Called(ctx, chatroomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

var _ repositories.CommunityRepository = (*CommunityRepositoryMock)(nil)
var _ repositories.APIKeyRepository = (*APIKeyRepositoryMock)(nil)
var _ repositories.ChatUserRepository = (*ChatUserRepositoryMock)(nil)
var _ repositories.ChatRoomRepository = (*ChatRoomRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
