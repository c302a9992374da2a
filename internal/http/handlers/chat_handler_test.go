package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/http/middleware"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/service"
)

// echoAgent возвращает фиксированный ответ и запоминает последний запрос.
type echoAgent struct {
	lastMessage  string
	lastLanguage string
}

func (a *echoAgent) Respond(ctx context.Context, caller service.Caller, history []models.ChatMessage, message, language string) (string, error) {
	a.lastMessage = message
	a.lastLanguage = language
	return "Namaste! Paddy grows well in your region.", nil
}

func newChatTestRouter(t *testing.T) (*gin.Engine, *echoAgent, *service.ChatService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore()
	agent := &echoAgent{}
	chats := service.NewChatService(repository.NewChatRepository(store), agent, nil)
	handler := NewChatHandler(chats, nil, nil)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/api/chat/send/:user_id", handler.Send)
	r.GET("/api/chat/history/:user_id", handler.History)
	r.DELETE("/api/chat/history/:user_id", handler.Clear)
	return r, agent, chats
}

func TestChatHandler_Send_ReturnsReply(t *testing.T) {
	r, agent, _ := newChatTestRouter(t)

	w := postJSON(r, "POST", "/api/chat/send/farmer-1", gin.H{
		"message": "Which crop suits my field?",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reply    string `json:"reply"`
		Language string `json:"language"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Namaste! Paddy grows well in your region.", resp.Reply)
	assert.Equal(t, models.LanguageEnglish, resp.Language)
	assert.Equal(t, "Which crop suits my field?", agent.lastMessage)
}

func TestChatHandler_Send_EmptyMessage(t *testing.T) {
	r, _, _ := newChatTestRouter(t)

	w := postJSON(r, "POST", "/api/chat/send/farmer-1", gin.H{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_Send_UnsupportedLanguage(t *testing.T) {
	r, _, _ := newChatTestRouter(t)

	w := postJSON(r, "POST", "/api/chat/send/farmer-1", gin.H{
		"message":  "hello",
		"language": "fr",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_HistoryAndClear(t *testing.T) {
	r, _, _ := newChatTestRouter(t)

	w := postJSON(r, "POST", "/api/chat/send/farmer-1", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/api/chat/history/farmer-1", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var resp struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	// Вопрос пользователя и ответ ассистента, старые первыми.
	assert.Len(t, resp.Messages, 2)
	assert.Equal(t, models.ChatRoleUser, resp.Messages[0].Role)
	assert.Equal(t, models.ChatRoleAssistant, resp.Messages[1].Role)

	req, _ = http.NewRequest("DELETE", "/api/chat/history/farmer-1", nil)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusOK, w3.Code)

	req, _ = http.NewRequest("GET", "/api/chat/history/farmer-1", nil)
	w4 := httptest.NewRecorder()
	r.ServeHTTP(w4, req)

	assert.NoError(t, json.Unmarshal(w4.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
}
