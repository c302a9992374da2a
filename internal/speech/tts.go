// Package speech синтезирует голосовые ответы через публичный
// TTS-эндпоинт Google Translate.
package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agrimitra/backend/internal/models"
)

// ttsMarkup — markdown и эмодзи, которые не должны попадать в озвучку.
var ttsMarkup = strings.NewReplacer(
	"*", "", "_", "", "#", "",
	"📢", "", "🌱", "", "💡", "", "✅", "", "❌", "", "🎤", "", "📸", "",
	"🤖", "", "🔍", "", "🦠", "", "🌍", "", "🐛", "", "💰", "", "📊", "",
	"🏛️", "", "🌾", "", "🔧", "", "🏪", "", "🗑️", "", "🌐", "", "📎", "",
)

// maxSpokenLen ограничивает длину озвучиваемого текста по языку,
// длинные фразы публичный эндпоинт обрезает сам и портит аудио.
var maxSpokenLen = map[string]int{
	models.LanguageEnglish: 500,
	models.LanguageHindi:   400,
	models.LanguageKannada: 300,
}

// Synthesizer озвучивает текст в mp3.
type Synthesizer struct {
	baseURL    string
	httpClient *http.Client
}

// NewSynthesizer создаёт синтезатор. Пустой baseURL выключает озвучку.
func NewSynthesizer(baseURL string) *Synthesizer {
	return &Synthesizer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Configured сообщает, доступен ли синтез.
func (s *Synthesizer) Configured() bool {
	return s != nil && s.baseURL != ""
}

// Synthesize озвучивает текст и возвращает mp3-байты.
func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("speech: synthesizer is not configured")
	}

	clean := CleanForSpeech(text, language)
	if clean == "" {
		return nil, fmt.Errorf("speech: nothing to synthesize")
	}

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", ttsCode(language))
	query.Set("q", clean)

	endpoint := s.baseURL + "/translate_tts?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("speech: build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: request tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("speech: tts endpoint returned %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("speech: read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech: tts endpoint returned empty audio")
	}
	return audio, nil
}

// CleanForSpeech убирает разметку и укорачивает текст под лимит языка.
func CleanForSpeech(text, language string) string {
	clean := ttsMarkup.Replace(text)
	clean = strings.Join(strings.Fields(clean), " ")

	limit, ok := maxSpokenLen[language]
	if !ok {
		limit = maxSpokenLen[models.LanguageEnglish]
	}
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}

// ttsCode приводит язык к коду эндпоинта.
func ttsCode(language string) string {
	switch language {
	case models.LanguageHindi, models.LanguageKannada:
		return language
	default:
		return models.LanguageEnglish
	}
}
