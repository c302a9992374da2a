package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/http/handlers/common"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/service"
	"github.com/agrimitra/backend/internal/ws"
)

// ssePingPeriod — период keep-alive событий SSE-стрима.
const ssePingPeriod = 25 * time.Second

// ChatHandler обслуживает веб-чат с ассистентом: отправку сообщений,
// SSE-стрим событий и историю диалога.
type ChatHandler struct {
	chats *service.ChatService
	auth  *service.AuthService
	hub   *ws.Hub
}

// NewChatHandler создаёт хэндлер.
func NewChatHandler(chats *service.ChatService, auth *service.AuthService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{chats: chats, auth: auth, hub: hub}
}

// Send обрабатывает POST /api/chat/send/:user_id.
func (h *ChatHandler) Send(c *gin.Context) {
	var req struct {
		Message  string `json:"message" binding:"required"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID := c.Param("user_id")
	reply, language, err := h.chats.Converse(c.Request.Context(), h.callerFor(c, userID),
		req.Message, req.Language, models.ChatChannelWeb)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{"reply": reply, "language": language})
}

// Events обрабатывает GET /api/chat/events/:user_id — SSE-стрим событий
// чата с периодическими ping для удержания соединения.
func (h *ChatHandler) Events(c *gin.Context) {
	userID := c.Param("user_id")
	sub := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(sub)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ticker := time.NewTicker(ssePingPeriod)
	defer ticker.Stop()

	c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case payload := <-sub.Events():
			c.SSEvent("message", string(payload))
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC()})
			return true
		}
	})
}

// History обрабатывает GET /api/chat/history/:user_id?limit=.
func (h *ChatHandler) History(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", 0)
	messages, err := h.chats.History(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	ok(c, gin.H{"messages": messages})
}

// Clear обрабатывает DELETE /api/chat/history/:user_id.
func (h *ChatHandler) Clear(c *gin.Context) {
	if err := h.chats.Clear(c.Request.Context(), c.Param("user_id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Chat history cleared"})
}

// callerFor собирает профиль собеседника для агента. Зарегистрированный
// пользователь получает своё имя и роль, гость — роль фермера.
func (h *ChatHandler) callerFor(c *gin.Context, userID string) service.Caller {
	caller := service.Caller{ID: userID, Name: "User", UserType: models.UserTypeFarmer}

	if role, err := common.CurrentUserRole(c); err == nil && role != "" {
		caller.UserType = role
	}
	if h.auth == nil {
		return caller
	}
	if user, err := h.auth.Me(c.Request.Context(), userID); err == nil {
		caller.Name = user.Name
		caller.UserType = user.UserType
	}
	return caller
}
