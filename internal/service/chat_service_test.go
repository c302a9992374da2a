package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/repository"
)

// echoAgent отвечает эхом и запоминает переданный контекст.
type echoAgent struct {
	lastHistory  []models.ChatMessage
	lastLanguage string
	fail         bool
}

func (a *echoAgent) Respond(_ context.Context, _ Caller, history []models.ChatMessage, message, language string) (string, error) {
	a.lastHistory = history
	a.lastLanguage = language
	if a.fail {
		return "", fmt.Errorf("model is down")
	}
	return "echo: " + message, nil
}

// capturePublisher запоминает опубликованные события.
type capturePublisher struct {
	events []models.ChatEvent
	users  []string
}

func (p *capturePublisher) Publish(userID string, event models.ChatEvent) {
	p.users = append(p.users, userID)
	p.events = append(p.events, event)
}

func newChatEnv() (*ChatService, *echoAgent, *capturePublisher) {
	agent := &echoAgent{}
	publisher := &capturePublisher{}
	chats := repository.NewChatRepository(docstore.NewMemoryStore())
	return NewChatService(chats, agent, publisher), agent, publisher
}

func TestChatService_Converse(t *testing.T) {
	svc, agent, publisher := newChatEnv()
	ctx := context.Background()
	caller := Caller{ID: "farmer-1", Name: "Ramesh", UserType: models.UserTypeFarmer}

	reply, language, err := svc.Converse(ctx, caller, "What crop suits acidic soil?", "", models.ChatChannelWeb)
	if err != nil {
		t.Fatalf("Converse вернул ошибку: %v", err)
	}
	if reply != "echo: What crop suits acidic soil?" {
		t.Errorf("неожиданный ответ: %q", reply)
	}
	if language != models.LanguageEnglish {
		t.Errorf("язык должен определяться по тексту, получили %q", language)
	}

	// Оба сообщения должны попасть в историю в правильном порядке.
	history, err := svc.History(ctx, caller.ID, 10)
	if err != nil {
		t.Fatalf("History вернул ошибку: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("ожидались два сообщения, получили %d", len(history))
	}
	if history[0].Role != models.ChatRoleUser || history[1].Role != models.ChatRoleAssistant {
		t.Errorf("порядок ролей нарушен: %s, %s", history[0].Role, history[1].Role)
	}
	if history[1].Channel != models.ChatChannelWeb {
		t.Errorf("канал должен сохраняться, получили %q", history[1].Channel)
	}

	// Второй вопрос должен видеть первую пару сообщений.
	if _, _, err := svc.Converse(ctx, caller, "and for alkaline?", models.LanguageEnglish, models.ChatChannelWeb); err != nil {
		t.Fatalf("второй Converse вернул ошибку: %v", err)
	}
	if len(agent.lastHistory) != 2 {
		t.Errorf("агент должен получать прошлый диалог, получил %d сообщений", len(agent.lastHistory))
	}

	if len(publisher.events) != 2 || publisher.users[0] != caller.ID {
		t.Fatalf("каждый ответ должен публиковаться подписчикам")
	}
	if publisher.events[0].Type != "message" {
		t.Errorf("ожидался тип события message, получили %q", publisher.events[0].Type)
	}
}

func TestChatService_ConverseHindi(t *testing.T) {
	svc, agent, _ := newChatEnv()
	caller := Caller{ID: "farmer-2", UserType: models.UserTypeFarmer}

	_, language, err := svc.Converse(context.Background(), caller, "गेहूं कब बोना चाहिए?", "", models.ChatChannelWhatsApp)
	if err != nil {
		t.Fatalf("Converse вернул ошибку: %v", err)
	}
	if language != models.LanguageHindi {
		t.Errorf("деванагари должна давать хинди, получили %q", language)
	}
	if agent.lastLanguage != models.LanguageHindi {
		t.Errorf("агент должен получать определённый язык, получил %q", agent.lastLanguage)
	}
}

func TestChatService_ConverseValidation(t *testing.T) {
	svc, _, _ := newChatEnv()
	caller := Caller{ID: "farmer-3", UserType: models.UserTypeFarmer}

	if _, _, err := svc.Converse(context.Background(), caller, "   ", "", models.ChatChannelWeb); err == nil {
		t.Fatalf("пустое сообщение должно отклоняться")
	}
	if _, _, err := svc.Converse(context.Background(), caller, "hello", "fr", models.ChatChannelWeb); err == nil {
		t.Fatalf("неподдерживаемый язык должен отклоняться")
	}
}

func TestChatService_AgentFailure(t *testing.T) {
	svc, agent, _ := newChatEnv()
	agent.fail = true
	caller := Caller{ID: "farmer-4", UserType: models.UserTypeFarmer}

	_, _, err := svc.Converse(context.Background(), caller, "hello", "", models.ChatChannelWeb)
	if err == nil {
		t.Fatalf("ошибка модели должна подниматься наверх")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperror.ErrCodeInternal {
		t.Errorf("ожидался INTERNAL_ERROR, получили %v", err)
	}

	// История не должна пополняться при сбое.
	history, err := svc.History(context.Background(), caller.ID, 10)
	if err != nil {
		t.Fatalf("History вернул ошибку: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("история должна остаться пустой, получили %d", len(history))
	}
}

func TestChatService_Clear(t *testing.T) {
	svc, _, _ := newChatEnv()
	ctx := context.Background()
	caller := Caller{ID: "farmer-5", UserType: models.UserTypeFarmer}

	if _, _, err := svc.Converse(ctx, caller, "hello", "", models.ChatChannelWeb); err != nil {
		t.Fatalf("Converse вернул ошибку: %v", err)
	}
	if err := svc.Clear(ctx, caller.ID); err != nil {
		t.Fatalf("Clear вернул ошибку: %v", err)
	}

	history, err := svc.History(ctx, caller.ID, 10)
	if err != nil {
		t.Fatalf("History вернул ошибку: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("после очистки история должна быть пустой, получили %d", len(history))
	}
}
