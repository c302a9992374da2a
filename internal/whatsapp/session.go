package whatsapp

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Session — состояние диалога с одним WhatsApp-номером.
type Session struct {
	UserID   string
	Language string
	LastSeen time.Time
}

// Sessions кеширует сессии по номеру с вытеснением по LRU и TTL.
type Sessions struct {
	cache *expirable.LRU[string, *Session]
}

// NewSessions создаёт кеш сессий.
func NewSessions(capacity int, ttl time.Duration) *Sessions {
	return &Sessions{
		cache: expirable.NewLRU[string, *Session](capacity, nil, ttl),
	}
}

// Touch возвращает сессию номера, создавая её при необходимости,
// и продлевает срок жизни.
func (s *Sessions) Touch(number string) *Session {
	sess, ok := s.cache.Get(number)
	if !ok {
		sess = &Session{UserID: userIDFor(number)}
	}
	sess.LastSeen = time.Now().UTC()
	// Повторный Add продлевает TTL записи.
	s.cache.Add(number, sess)
	return sess
}

// SetLanguage фиксирует язык диалога.
func (s *Sessions) SetLanguage(number, language string) {
	sess := s.Touch(number)
	sess.Language = language
	s.cache.Add(number, sess)
}

// Drop забывает сессию номера.
func (s *Sessions) Drop(number string) {
	s.cache.Remove(number)
}

// userIDFor детерминированно выводит ID пользователя из номера,
// чтобы история диалога переживала вытеснение сессии.
func userIDFor(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		digits = "unknown"
	}
	return "wa-" + digits
}
