// Package ws доставляет события чата подписчикам пользователя:
// WebSocket-клиентам и SSE-стримам.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/models"
)

// Hub ведёт подписки и рассылает события по userID.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscriber]struct{}
	register    chan *Subscriber
	unregister  chan *Subscriber
	broadcast   chan message
}

type message struct {
	userID  string
	payload []byte
}

// Subscriber — один поток доставки событий пользователю.
type Subscriber struct {
	userID string
	send   chan []byte
}

// Events возвращает канал сериализованных событий подписчика.
func (s *Subscriber) Events() <-chan []byte {
	return s.send
}

// NewHub создаёт хаб. До запуска Run подписки блокируются.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Subscriber]struct{}),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		broadcast:   make(chan message, 64),
	}
}

// Run крутит главный цикл хаба до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-h.register:
			h.add(sub)
		case sub := <-h.unregister:
			h.remove(sub)
		case msg := <-h.broadcast:
			h.fanOut(msg.userID, msg.payload)
		}
	}
}

// Subscribe регистрирует новый поток событий пользователя.
func (h *Hub) Subscribe(userID string) *Subscriber {
	sub := &Subscriber{userID: userID, send: make(chan []byte, 16)}
	h.register <- sub
	return sub
}

// Unsubscribe снимает подписку. Канал подписчика не закрывается,
// читатель завершается по своему контексту.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.unregister <- sub
}

// Publish рассылает событие всем потокам пользователя.
// При переполненном хабе событие отбрасывается, доставка не гарантируется.
func (h *Hub) Publish(userID string, event models.ChatEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			}).Warn("ws: не удалось сериализовать событие")
		}
		return
	}

	select {
	case h.broadcast <- message{userID: userID, payload: payload}:
	default:
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"userId": userID,
			}).Warn("ws: очередь рассылки переполнена, событие отброшено")
		}
	}
}

func (h *Hub) add(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub.userID]; !ok {
		h.subscribers[sub.userID] = make(map[*Subscriber]struct{})
	}
	h.subscribers[sub.userID][sub] = struct{}{}
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscribers[sub.userID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, sub.userID)
		}
	}
}

func (h *Hub) fanOut(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers[userID] {
		select {
		case sub.send <- payload:
		default:
			// Медленный подписчик теряет событие, остальные не ждут.
		}
	}
}
