// Package ai содержит клиент Gemini и агента ассистента с инструментами.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/agrimitra/backend/internal/models"
)

// Client — тонкая обёртка над официальным genai клиентом.
type Client struct {
	cli   *genai.Client
	model string
}

// NewClient создаёт клиент Gemini. Имя модели берётся из конфигурации,
// подходит любая genai-совместимая модель.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: не удалось создать клиент: %w", err)
	}
	return &Client{cli: cli, model: model}, nil
}

// Model возвращает имя используемой модели.
func (c *Client) Model() string { return c.model }

// GenerateContent выполняет один запрос генерации. Реализует ChatModel.
func (c *Client) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.cli.Models.GenerateContent(ctx, c.model, contents, config)
}

// Generate выполняет простую текстовую генерацию без инструментов.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}},
		config,
	)
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("ai: пустой ответ модели")
	}
	return text, nil
}

// visionReport — формат, который модель просят вернуть при анализе фото.
type visionReport struct {
	Condition  string   `json:"condition"`
	Confidence float64  `json:"confidence"`
	Treatments []string `json:"treatments"`
}

const visionPrompt = `You are a plant pathology expert. Analyze the crop photo and respond with JSON only:
{"condition": "<disease name or Healthy>", "confidence": <0..1>, "treatments": ["<practical step>", ...]}
If the plant looks healthy, set condition to "Healthy" and suggest maintenance tips in treatments.`

// AnalyzeCropImage диагностирует болезнь растения по фотографии.
func (c *Client) AnalyzeCropImage(ctx context.Context, mimeType string, data []byte) (*models.DiseaseReport, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: visionPrompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		},
	}}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents,
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("ai: анализ изображения: %w", err)
	}

	text := responseText(resp)
	var report visionReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return nil, fmt.Errorf("ai: модель вернула не-JSON ответ: %w", err)
	}
	if report.Condition == "" {
		return nil, fmt.Errorf("ai: в ответе модели нет диагноза")
	}

	return &models.DiseaseReport{
		Condition:  report.Condition,
		Confidence: report.Confidence,
		Treatments: report.Treatments,
		Source:     "vision",
	}, nil
}

// Transcribe переводит голосовое сообщение в текст на исходном языке.
func (c *Client) Transcribe(ctx context.Context, mimeType string, data []byte) (string, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: "Transcribe this voice message verbatim in its original language. Return only the transcription text."},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		},
	}}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("ai: транскрибация: %w", err)
	}
	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", fmt.Errorf("ai: пустая транскрипция")
	}
	return text, nil
}

// responseText собирает текстовые части первого кандидата.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
