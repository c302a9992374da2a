// Package whatsapp обслуживает входящий Twilio-вебхук и отвечает
// пользователям через Twilio REST API.
package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agrimitra/backend/internal/logger"
)

// maxMessageLen — лимит Twilio на тело WhatsApp-сообщения.
const maxMessageLen = 1500

// Client шлёт сообщения и забирает вложения через Twilio REST API.
type Client struct {
	accountSID string
	authToken  string
	from       string
	apiBase    string
	httpClient *http.Client
}

// NewClient создаёт клиента Twilio. Пустые креды выключают отправку.
func NewClient(accountSID, authToken, from string) *Client {
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       normalizeNumber(from),
		apiBase:    "https://api.twilio.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured сообщает, настроен ли клиент для отправки.
func (c *Client) Configured() bool {
	return c != nil && c.accountSID != "" && c.authToken != ""
}

// SendText отправляет текстовое сообщение, обрезая его под лимит Twilio.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", normalizeNumber(to))
	form.Set("Body", truncateBody(body))
	return c.postMessage(ctx, form)
}

// SendMedia отправляет сообщение с вложением и подписью.
func (c *Client) SendMedia(ctx context.Context, to, mediaURL, caption string) error {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", normalizeNumber(to))
	form.Set("MediaUrl", mediaURL)
	if caption != "" {
		form.Set("Body", truncateBody(caption))
	}
	return c.postMessage(ctx, form)
}

func (c *Client) postMessage(ctx context.Context, form url.Values) error {
	if !c.Configured() {
		return fmt.Errorf("whatsapp: twilio client is not configured")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.apiBase, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp: twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// FetchMedia скачивает вложение по ссылке Twilio с базовой авторизацией.
func (c *Client) FetchMedia(ctx context.Context, mediaURL string) ([]byte, string, error) {
	if !c.Configured() {
		return nil, "", fmt.Errorf("whatsapp: twilio client is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("whatsapp: build media request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("whatsapp: fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", fmt.Errorf("whatsapp: media endpoint returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, "", fmt.Errorf("whatsapp: read media: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// truncateBody укорачивает сообщение под лимит Twilio.
func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= maxMessageLen {
		return body
	}
	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"length": len(runes),
		}).Warn("whatsapp: сообщение обрезано под лимит Twilio")
	}
	return string(runes[:maxMessageLen]) + "..."
}

// normalizeNumber приводит номер к формату whatsapp:+NNN.
func normalizeNumber(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return "whatsapp:" + number
}
