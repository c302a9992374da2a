package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
)

const chatCollection = "chat_messages"

// ChatRepository отвечает за историю диалогов с ассистентом.
type ChatRepository struct {
	store docstore.Store
}

// NewChatRepository создаёт репозиторий истории диалогов.
func NewChatRepository(store docstore.Store) *ChatRepository {
	return &ChatRepository{store: store}
}

// Create сохраняет сообщение диалога.
func (r *ChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	if err := r.store.Add(ctx, chatCollection, msg.ID, msg); err != nil {
		return fmt.Errorf("chat repository: create: %w", err)
	}
	return nil
}

// ListByUser возвращает последние limit сообщений пользователя,
// отсортированные от старых к новым. limit <= 0 снимает ограничение.
func (r *ChatRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	filters := []docstore.Filter{{Field: "userId", Value: userID}}
	if err := r.store.Query(ctx, chatCollection, filters, &messages); err != nil {
		return nil, fmt.Errorf("chat repository: list by user: %w", err)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// ClearByUser удаляет всю историю пользователя, возвращает число удалённых.
func (r *ChatRepository) ClearByUser(ctx context.Context, userID string) (int, error) {
	var messages []models.ChatMessage
	filters := []docstore.Filter{{Field: "userId", Value: userID}}
	if err := r.store.Query(ctx, chatCollection, filters, &messages); err != nil {
		return 0, fmt.Errorf("chat repository: clear: %w", err)
	}

	removed := 0
	for _, msg := range messages {
		if err := r.store.Delete(ctx, chatCollection, msg.ID); err != nil {
			return removed, fmt.Errorf("chat repository: clear: %w", err)
		}
		removed++
	}
	return removed, nil
}
