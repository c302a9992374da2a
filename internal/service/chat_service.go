package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrimitra/backend/internal/lang"
	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
)

// historyWindow — сколько последних сообщений передаётся модели как контекст.
const historyWindow = 20

// Caller — пользователь, от имени которого работает ассистент.
type Caller struct {
	ID       string
	Name     string
	UserType string
}

// ChatHistoryRepository — хранилище истории диалогов.
type ChatHistoryRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
	ClearByUser(ctx context.Context, userID string) (int, error)
}

// ChatAgent генерирует ответ ассистента по истории и новому сообщению.
type ChatAgent interface {
	Respond(ctx context.Context, caller Caller, history []models.ChatMessage, message, language string) (string, error)
}

// ChatPublisher доставляет события чата подписчикам пользователя.
type ChatPublisher interface {
	Publish(userID string, event models.ChatEvent)
}

// ChatService ведёт диалог пользователя с ассистентом.
type ChatService struct {
	chats     ChatHistoryRepository
	agent     ChatAgent
	publisher ChatPublisher
}

// NewChatService создаёт сервис диалогов. publisher может быть nil.
func NewChatService(chats ChatHistoryRepository, agent ChatAgent, publisher ChatPublisher) *ChatService {
	return &ChatService{chats: chats, agent: agent, publisher: publisher}
}

// Converse обрабатывает сообщение пользователя и возвращает ответ ассистента.
// Язык определяется по тексту, если не задан явно.
func (s *ChatService) Converse(ctx context.Context, caller Caller, message, language, channel string) (string, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", "", apperror.New(apperror.ErrCodeBadRequest, "message is required")
	}
	if language == "" {
		language = lang.Detect(message)
	} else if !lang.Supported(language) {
		return "", "", apperror.New(apperror.ErrCodeBadRequest, "language must be en, hi or kn")
	}

	history, err := s.chats.ListByUser(ctx, caller.ID, historyWindow)
	if err != nil {
		return "", "", apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching chat history")
	}

	reply, err := s.agent.Respond(ctx, caller, history, message, language)
	if err != nil {
		return "", "", apperror.Wrap(err, apperror.ErrCodeInternal, "Assistant is unavailable right now")
	}

	now := time.Now().UTC()
	userMsg := &models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    caller.ID,
		Role:      models.ChatRoleUser,
		Text:      message,
		Language:  language,
		Channel:   channel,
		CreatedAt: now,
	}
	assistantMsg := &models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    caller.ID,
		Role:      models.ChatRoleAssistant,
		Text:      reply,
		Language:  language,
		Channel:   channel,
		CreatedAt: now.Add(time.Millisecond),
	}

	// Ответ уже получен, потеря истории не должна ронять диалог.
	for _, msg := range []*models.ChatMessage{userMsg, assistantMsg} {
		if err := s.chats.Create(ctx, msg); err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(map[string]interface{}{
					"userId": caller.ID,
					"error":  err.Error(),
				}).Warn("chat: не удалось сохранить сообщение истории")
			}
			break
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(caller.ID, models.ChatEvent{Type: "message", Data: assistantMsg})
	}
	return reply, language, nil
}

// History возвращает последние limit сообщений пользователя, старые первыми.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = historyWindow
	}
	messages, err := s.chats.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching chat history")
	}
	return messages, nil
}

// Clear удаляет историю диалога пользователя.
func (s *ChatService) Clear(ctx context.Context, userID string) error {
	if _, err := s.chats.ClearByUser(ctx, userID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error clearing chat history")
	}
	return nil
}
