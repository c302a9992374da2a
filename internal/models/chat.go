package models

import "time"

// ChatMessage — сообщение диалога с ассистентом, сохраняется для истории
// и восстановления контекста между каналами (web, WhatsApp).
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Language  string    `json:"language,omitempty"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatRole роли сообщений в диалоге
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatEvent — событие стрима чата для SSE и WebSocket подписчиков.
type ChatEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
