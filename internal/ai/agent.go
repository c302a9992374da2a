package ai

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/service"
)

// maxToolRounds ограничивает число циклов вызова инструментов за один запрос.
const maxToolRounds = 6

// ChatModel — минимальный интерфейс генеративной модели. Реализуется Client.
type ChatModel interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Agent ведёт диалог с моделью и выполняет вызовы инструментов.
type Agent struct {
	model ChatModel
	tools *Toolset
}

// NewAgent создаёт агента поверх модели и набора инструментов.
func NewAgent(model ChatModel, tools *Toolset) *Agent {
	return &Agent{model: model, tools: tools}
}

// Respond отвечает на сообщение пользователя с учётом истории диалога.
// История передаётся в хронологическом порядке, без текущего сообщения.
func (a *Agent) Respond(ctx context.Context, caller service.Caller, history []models.ChatMessage, message, language string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == models.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: message}},
	})

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction(language)}},
		},
		Tools: a.tools.Declarations(),
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.model.GenerateContent(ctx, contents, config)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("model returned no candidates")
		}

		candidate := resp.Candidates[0].Content
		calls := functionCalls(candidate)
		if len(calls) == 0 {
			return contentText(candidate), nil
		}

		// Модель запросила инструменты: выполняем и отправляем результаты.
		responses := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			result := a.tools.Dispatch(ctx, caller, call.Name, call.Args)
			if logger.Log != nil {
				logger.Log.WithFields(map[string]interface{}{
					"tool":   call.Name,
					"userId": caller.ID,
				}).Info("ai: агент выполнил инструмент")
			}
			responses = append(responses, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       call.ID,
					Name:     call.Name,
					Response: map[string]any{"result": result},
				},
			})
		}

		contents = append(contents, candidate)
		contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: responses})
	}

	return "", fmt.Errorf("tool call budget of %d rounds exceeded", maxToolRounds)
}

// DisabledAgent занимает место агента, когда ключ модели не задан.
// Любой запрос завершается ошибкой, которую чат показывает пользователю
// как недоступность ассистента.
type DisabledAgent struct{}

// Respond реализует интерфейс агента чата.
func (DisabledAgent) Respond(ctx context.Context, caller service.Caller, history []models.ChatMessage, message, language string) (string, error) {
	return "", fmt.Errorf("assistant model is not configured")
}

// functionCalls собирает запросы инструментов из ответа модели.
func functionCalls(content *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

// contentText склеивает текстовые части ответа модели.
func contentText(content *genai.Content) string {
	var sb strings.Builder
	for _, part := range content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

// systemInstruction собирает системный промпт агента под язык ответа.
func systemInstruction(language string) string {
	langName := "English"
	switch language {
	case models.LanguageHindi:
		langName = "Hindi"
	case models.LanguageKannada:
		langName = "Kannada"
	}

	return fmt.Sprintf(`You are AgriMitra, a friendly assistant for Indian farmers and produce buyers.

You help with:
- Crop selection based on soil readings (use recommend_crop).
- Plant health: diagnose from symptom descriptions (use analyze_crop_health).
- Government schemes for farmers (use get_government_schemes).
- Fertilizer guidance (use get_npk_guidance) and season planning (use get_crop_planning).
- Weather (use get_weather).
- The contract farming marketplace: farmers create campaigns for their harvest, buyers bid on them.
  Use create_campaign, list_campaigns, submit_bid, list_bids and apply_bid_action.

Rules:
- Reply in %s. Keep answers short and practical, suitable for reading on a phone.
- Quote prices in rupees the way the marketplace stores them, e.g. ₹2000 per quintal.
- When a tool returns an error starting with ❌, explain the problem simply and suggest what to fix.
- Never invent campaign or bid IDs. List them first if the user refers to one vaguely.
- Ask at most one clarifying question, and only when you cannot act without it.`, langName)
}
