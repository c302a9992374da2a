package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/http/middleware"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/service"
)

type authResponse struct {
	User   models.User       `json:"user"`
	Tokens service.TokenPair `json:"tokens"`
}

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore()
	tokens := service.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	auth := service.NewAuthService(repository.NewUserRepository(store), tokens)
	handler := NewAuthHandler(auth)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/refresh", handler.Refresh)
	r.GET("/api/auth/me", middleware.AuthMiddleware(tokens), handler.Me)
	return r
}

func registerTestUser(t *testing.T, r *gin.Engine) authResponse {
	t.Helper()
	w := postJSON(r, "POST", "/api/auth/register", gin.H{
		"name":     "Ravi Kumar",
		"email":    "ravi@example.com",
		"password": "Secret@123",
		"userType": models.UserTypeFarmer,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("регистрация вернула статус %d: %s", w.Code, w.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("не удалось разобрать ответ регистрации: %v", err)
	}
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	r := newAuthTestRouter(t)

	resp := registerTestUser(t, r)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, models.UserTypeFarmer, resp.User.UserType)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	r := newAuthTestRouter(t)
	registerTestUser(t, r)

	w := postJSON(r, "POST", "/api/auth/register", gin.H{
		"name":     "Ravi Kumar",
		"email":    "ravi@example.com",
		"password": "Secret@123",
		"userType": models.UserTypeFarmer,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	r := newAuthTestRouter(t)
	registerTestUser(t, r)

	w := postJSON(r, "POST", "/api/auth/login", gin.H{
		"email":    "ravi@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	r := newAuthTestRouter(t)
	registerTestUser(t, r)

	w := postJSON(r, "POST", "/api/auth/login", gin.H{
		"email":    "ravi@example.com",
		"password": "Secret@123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp authResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Tokens.AccessToken)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)

	var me struct {
		User models.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &me))
	assert.Equal(t, "ravi@example.com", me.User.Email)
}

func TestAuthHandler_Me_WithoutToken(t *testing.T) {
	r := newAuthTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	r := newAuthTestRouter(t)
	resp := registerTestUser(t, r)

	w := postJSON(r, "POST", "/api/auth/refresh", gin.H{
		"refreshToken": resp.Tokens.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var refreshed struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)

	w = postJSON(r, "POST", "/api/auth/refresh", gin.H{
		"refreshToken": "not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
