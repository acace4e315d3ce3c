package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-backend/internal/apperrors"
	"chat-backend/internal/mocks"
	"chat-backend/internal/models"
	"chat-backend/internal/repositories"
)

func setupChatRoomRouter(handler *ChatRoomHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/rooms", handler.CreateChatRoom)
	r.GET("/rooms", handler.ListChatRooms)
	r.GET("/rooms/:room_id/messages", handler.GetRoomMessages)
	r.POST("/messages/:message_id/read", handler.MarkMessageRead)
	return r
}

func TestCreateChatRoomSuccess(t *testing.T) {
	roomRepo := new(mocks.ChatRoomRepositoryMock)
	userRepo := new(mocks.ChatUserRepositoryMock)
	handler := NewChatRoomHandler(roomRepo, userRepo, new(mocks.MessageRepositoryMock), new(mocks.MessageSenderMock))
	router := setupChatRoomRouter(handler)

	userRepo.On("UsersExist", mock.Anything, []string{"u1", "u2"}).Return(true, nil).Once()
	roomRepo.On("CreateOrGetRoom", mock.Anything, []string{"u1", "u2"}).
		Return(models.ChatRoom{ID: "r1"}, nil).Once()
	userRepo.On("GetChatUsers", mock.Anything, []string{"u1", "u2"}).
		Return([]models.ChatUser{{ID: "u1"}, {ID: "u2"}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString(`{"member_ids":["u1","u2"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.ChatRoom
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Members, 2, "a fresh room must come back with its member entities")
	userRepo.AssertExpectations(t)
	roomRepo.AssertExpectations(t)
}

func TestCreateChatRoomExistingRoomKeepsLoadedMembers(t *testing.T) {
	roomRepo := new(mocks.ChatRoomRepositoryMock)
	userRepo := new(mocks.ChatUserRepositoryMock)
	handler := NewChatRoomHandler(roomRepo, userRepo, new(mocks.MessageRepositoryMock), new(mocks.MessageSenderMock))
	router := setupChatRoomRouter(handler)

	userRepo.On("UsersExist", mock.Anything, []string{"u1", "u2"}).Return(true, nil).Once()
	roomRepo.On("CreateOrGetRoom", mock.Anything, []string{"u1", "u2"}).
		Return(models.ChatRoom{ID: "r1", Members: []models.ChatUser{{ID: "u1"}, {ID: "u2"}}}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString(`{"member_ids":["u1","u2"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertNotCalled(t, "GetChatUsers", mock.Anything, mock.Anything)
}

func TestCreateChatRoomUnknownMember(t *testing.T) {
	roomRepo := new(mocks.ChatRoomRepositoryMock)
	userRepo := new(mocks.ChatUserRepositoryMock)
	handler := NewChatRoomHandler(roomRepo, userRepo, new(mocks.MessageRepositoryMock), new(mocks.MessageSenderMock))
	router := setupChatRoomRouter(handler)

	userRepo.On("UsersExist", mock.Anything, []string{"u1", "ghost"}).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString(`{"member_ids":["u1","ghost"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	roomRepo.AssertNotCalled(t, "CreateOrGetRoom", mock.Anything, mock.Anything)
}

func TestCreateChatRoomEmptyMembers(t *testing.T) {
	handler := NewChatRoomHandler(new(mocks.ChatRoomRepositoryMock), new(mocks.ChatUserRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.MessageSenderMock))
	router := setupChatRoomRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString(`{"member_ids":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListChatRoomsRequiresUserID(t *testing.T) {
	handler := NewChatRoomHandler(new(mocks.ChatRoomRepositoryMock), new(mocks.ChatUserRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.MessageSenderMock))
	router := setupChatRoomRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListChatRoomsSuccess(t *testing.T) {
	roomRepo := new(mocks.ChatRoomRepositoryMock)
	handler := NewChatRoomHandler(roomRepo, new(mocks.ChatUserRepositoryMock), new(mocks.MessageRepositoryMock), new(mocks.MessageSenderMock))
	router := setupChatRoomRouter(handler)

	roomRepo.On("ListRoomsForUser", mock.Anything, "u1").
		Return([]models.ChatRoom{{ID: "r1"}, {ID: "r2"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms?user_id=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp["chatrooms"], 2)
}

func TestGetRoomMessagesStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown room", repositories.ErrRoomNotFound, http.StatusNotFound},
		{"corrupted history", apperrors.New(apperrors.CryptoFailure, "decrypt message m2"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			history := new(mocks.MessageSenderMock)
			handler := NewChatRoomHandler(new(mocks.ChatRoomRepositoryMock), new(mocks.ChatUserRepositoryMock), new(mocks.MessageRepositoryMock), history)
			router := setupChatRoomRouter(handler)

			history.On("History", mock.Anything, "r1").Return(([]models.Message)(nil), tc.err).Once()

			req := httptest.NewRequest(http.MethodGet, "/rooms/r1/messages", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestGetRoomMessagesSuccess(t *testing.T) {
	history := new(mocks.MessageSenderMock)
	handler := NewChatRoomHandler(new(mocks.ChatRoomRepositoryMock), new(mocks.ChatUserRepositoryMock), new(mocks.MessageRepositoryMock), history)
	router := setupChatRoomRouter(handler)

	history.On("History", mock.Anything, "r1").
		Return([]models.Message{{ID: "m1", Value: "hello"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	history.AssertExpectations(t)
}

func TestMarkMessageRead(t *testing.T) {
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatRoomHandler(new(mocks.ChatRoomRepositoryMock), new(mocks.ChatUserRepositoryMock), messageRepo, new(mocks.MessageSenderMock))
	router := setupChatRoomRouter(handler)

	messageRepo.On("MarkRead", mock.Anything, "m1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages/m1/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	messageRepo.AssertExpectations(t)
}
