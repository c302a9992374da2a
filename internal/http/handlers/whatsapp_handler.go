package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/goroutine"
	"github.com/agrimitra/backend/internal/whatsapp"
)

// webhookTimeout ограничивает фоновую обработку одного сообщения:
// агент, загрузка вложений и синтез речи вместе.
const webhookTimeout = 2 * time.Minute

// WhatsAppHandler принимает вебхуки Twilio.
type WhatsAppHandler struct {
	service *whatsapp.Service
}

// NewWhatsAppHandler создаёт хэндлер.
func NewWhatsAppHandler(service *whatsapp.Service) *WhatsAppHandler {
	return &WhatsAppHandler{service: service}
}

// Incoming обрабатывает POST /webhook/whatsapp. Вебхук всегда отвечает
// пустым TwiML: Twilio получает подтверждение сразу, содержательный
// ответ уходит отдельным сообщением из фоновой обработки.
func (h *WhatsAppHandler) Incoming(c *gin.Context) {
	in := whatsapp.IncomingMessage{
		From:             c.PostForm("From"),
		Body:             c.PostForm("Body"),
		NumMedia:         parseFormInt(c.PostForm("NumMedia")),
		MediaURL:         c.PostForm("MediaUrl0"),
		MediaContentType: c.PostForm("MediaContentType0"),
	}

	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()
		h.service.HandleIncoming(ctx, in)
	})

	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(whatsapp.EmptyTwiML))
}

// Status обрабатывает POST /webhook/whatsapp/status — колбэки о доставке.
func (h *WhatsAppHandler) Status(c *gin.Context) {
	h.service.HandleStatus(c.PostForm("MessageSid"), c.PostForm("MessageStatus"), c.PostForm("To"))
	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(whatsapp.EmptyTwiML))
}

// parseFormInt разбирает числовое поле формы. Мусор считается нулём.
func parseFormInt(v string) int {
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
