package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agrimitra/backend/internal/goroutine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client прокачивает события подписки в одно WebSocket-соединение.
type Client struct {
	conn *websocket.Conn
	hub  *Hub
	sub  *Subscriber
}

// NewClient подписывает соединение на события пользователя.
func NewClient(conn *websocket.Conn, hub *Hub, userID string) *Client {
	return &Client{
		conn: conn,
		hub:  hub,
		sub:  hub.Subscribe(userID),
	}
}

// Run обслуживает соединение до его закрытия или отмены контекста.
func (c *Client) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	goroutine.SafeGo(func() {
		defer cancel()
		c.readPump()
	})
	c.writePump(ctx)
	cancel()
	c.Close()
}

// Close снимает подписку и закрывает соединение.
func (c *Client) Close() {
	c.hub.Unsubscribe(c.sub)
	_ = c.conn.Close()
}

// readPump вычитывает входящие кадры ради pong-обработки. Сообщения
// клиента игнорируются, сервер только шлёт события.
func (c *Client) readPump() {
	c.conn.SetReadLimit(512 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case payload := <-c.sub.Events():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
