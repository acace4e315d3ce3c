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

	"chat-backend/internal/mocks"
	"chat-backend/internal/models"
	"chat-backend/internal/repositories"
)

func setupCommunityRouter(handler *CommunityHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/communities", handler.CreateCommunity)
	r.GET("/communities", handler.ListCommunities)
	r.GET("/communities/:community_id", handler.GetCommunity)
	r.GET("/communities/:community_id/api-key", handler.GetCommunityAPIKey)
	r.PATCH("/communities/:community_id", handler.UpdateCommunity)
	r.DELETE("/communities/:community_id", handler.DeleteCommunity)
	return r
}

func TestCreateCommunitySuccess(t *testing.T) {
	communityRepo := new(mocks.CommunityRepositoryMock)
	apiKeyRepo := new(mocks.APIKeyRepositoryMock)
	handler := NewCommunityHandler(communityRepo, apiKeyRepo, nil)
	router := setupCommunityRouter(handler)

	communityRepo.On("CreateCommunity", mock.Anything, "acme").
		Return(models.Community{ID: "comm-1", Name: "acme"}, nil).Once()
	apiKeyRepo.On("GenerateForCommunity", mock.Anything, "comm-1").
		Return(models.APIKey{Key: "key-123", CommunityID: "comm-1"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/communities", bytes.NewBufferString(`{"name":"acme"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "key-123", resp["api_key"])

	communityRepo.AssertExpectations(t)
	apiKeyRepo.AssertExpectations(t)
}

func TestCreateCommunityNameTaken(t *testing.T) {
	communityRepo := new(mocks.CommunityRepositoryMock)
	handler := NewCommunityHandler(communityRepo, new(mocks.APIKeyRepositoryMock), nil)
	router := setupCommunityRouter(handler)

	communityRepo.On("CreateCommunity", mock.Anything, "acme").
		Return(models.Community{}, repositories.ErrCommunityNameTaken).Once()

	req := httptest.NewRequest(http.MethodPost, "/communities", bytes.NewBufferString(`{"name":"acme"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	communityRepo.AssertExpectations(t)
}

func TestCreateCommunityMissingName(t *testing.T) {
	handler := NewCommunityHandler(new(mocks.CommunityRepositoryMock), new(mocks.APIKeyRepositoryMock), nil)
	router := setupCommunityRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/communities", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCommunityNotFound(t *testing.T) {
	communityRepo := new(mocks.CommunityRepositoryMock)
	handler := NewCommunityHandler(communityRepo, new(mocks.APIKeyRepositoryMock), nil)
	router := setupCommunityRouter(handler)

	communityRepo.On("GetCommunity", mock.Anything, "missing").
		Return(models.Community{}, repositories.ErrCommunityNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/communities/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCommunityAPIKey(t *testing.T) {
	communityRepo := new(mocks.CommunityRepositoryMock)
	apiKeyRepo := new(mocks.APIKeyRepositoryMock)
	handler := NewCommunityHandler(communityRepo, apiKeyRepo, nil)
	router := setupCommunityRouter(handler)

	communityRepo.On("GetCommunity", mock.Anything, "comm-1").
		Return(models.Community{ID: "comm-1", Name: "acme"}, nil).Once()
	apiKeyRepo.On("GetForCommunity", mock.Anything, "comm-1").
		Return(models.APIKey{Key: "key-123", CommunityID: "comm-1", UpToDate: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/communities/comm-1/api-key", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "key-123")
	apiKeyRepo.AssertExpectations(t)
}

func TestGetCommunityAPIKeyUnknownCommunity(t *testing.T) {
	communityRepo := new(mocks.CommunityRepositoryMock)
	apiKeyRepo := new(mocks.APIKeyRepositoryMock)
	handler := NewCommunityHandler(communityRepo, apiKeyRepo, nil)
	router := setupCommunityRouter(handler)

	communityRepo.On("GetCommunity", mock.Anything, "missing").
		Return(models.Community{}, repositories.ErrCommunityNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/communities/missing/api-key", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	apiKeyRepo.AssertNotCalled(t, "GetForCommunity", mock.Anything, mock.Anything)
}

func TestUpdateCommunityRenames(t *testing.T) {
	communityRepo := new(mocks.CommunityRepositoryMock)
	handler := NewCommunityHandler(communityRepo, new(mocks.APIKeyRepositoryMock), nil)
	router := setupCommunityRouter(handler)

	communityRepo.On("RenameCommunity", mock.Anything, "comm-1", "renamed").
		Return(models.Community{ID: "comm-1", Name: "renamed"}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/communities/comm-1", bytes.NewBufferString(`{"name":"renamed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	communityRepo.AssertExpectations(t)
}

func TestDeleteCommunity(t *testing.T) {
	communityRepo := new(mocks.CommunityRepositoryMock)
	handler := NewCommunityHandler(communityRepo, new(mocks.APIKeyRepositoryMock), nil)
	router := setupCommunityRouter(handler)

	communityRepo.On("DeleteCommunity", mock.Anything, "comm-1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/communities/comm-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	communityRepo.AssertExpectations(t)
}
