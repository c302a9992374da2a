package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agrimitra/backend/internal/lang"
	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/service"
)

// Messenger — исходящий канал Twilio.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendMedia(ctx context.Context, to, mediaURL, caption string) error
	FetchMedia(ctx context.Context, mediaURL string) ([]byte, string, error)
}

// Conversations ведёт диалог с ассистентом. Реализуется ChatService.
type Conversations interface {
	Converse(ctx context.Context, caller service.Caller, message, language, channel string) (string, string, error)
	Clear(ctx context.Context, userID string) error
}

// Transcriber расшифровывает голосовые сообщения.
type Transcriber interface {
	Transcribe(ctx context.Context, mimeType string, data []byte) (string, error)
}

// ImageAnalyzer диагностирует фото посевов.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, data []byte) (*models.DiseaseReport, error)
}

// Synthesizer озвучивает ответы.
type Synthesizer interface {
	Configured() bool
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// MediaUploader хранит озвученные ответы и выдаёт на них ссылки.
type MediaUploader interface {
	Put(ctx context.Context, prefix, uploadedBy string, data []byte) (*models.MediaObject, error)
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// IncomingMessage — разобранные поля Twilio-вебхука.
type IncomingMessage struct {
	From             string
	Body             string
	NumMedia         int
	MediaURL         string
	MediaContentType string
}

// Deps — зависимости сервиса. Transcriber, Images, TTS и Media опциональны,
// без них соответствующие сценарии деградируют до текстовых ответов.
type Deps struct {
	Sessions    *Sessions
	Messenger   Messenger
	Chats       Conversations
	Images      ImageAnalyzer
	Transcriber Transcriber
	TTS         Synthesizer
	Media       MediaUploader
}

// Service обрабатывает входящие WhatsApp-сообщения.
type Service struct {
	sessions    *Sessions
	twilio      Messenger
	chats       Conversations
	images      ImageAnalyzer
	transcriber Transcriber
	tts         Synthesizer
	media       MediaUploader
}

// NewService создаёт сервис вебхука.
func NewService(deps Deps) *Service {
	return &Service{
		sessions:    deps.Sessions,
		twilio:      deps.Messenger,
		chats:       deps.Chats,
		images:      deps.Images,
		transcriber: deps.Transcriber,
		tts:         deps.TTS,
		media:       deps.Media,
	}
}

// HandleIncoming обрабатывает сообщение вебхука. Ошибки не возвращаются:
// пользователь получает извинение, Twilio уже получил пустой TwiML.
func (s *Service) HandleIncoming(ctx context.Context, in IncomingMessage) {
	if in.From == "" {
		if logger.Log != nil {
			logger.Log.Warn("whatsapp: вебхук без номера отправителя")
		}
		return
	}

	sess := s.sessions.Touch(in.From)
	switch {
	case in.NumMedia > 0 && strings.HasPrefix(in.MediaContentType, "image/"):
		s.handleImage(ctx, sess, in)
	case in.NumMedia > 0 && strings.HasPrefix(in.MediaContentType, "audio/"):
		s.handleVoice(ctx, sess, in)
	case in.NumMedia > 0:
		s.reply(ctx, in.From, lang.MediaUnsupported())
	case strings.TrimSpace(in.Body) != "":
		s.handleText(ctx, sess, in)
	default:
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"from": in.From,
			}).Warn("whatsapp: пустое сообщение без вложений")
		}
	}
}

// HandleStatus логирует колбэк о статусе доставки.
func (s *Service) HandleStatus(messageSID, status, to string) {
	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"sid":    messageSID,
			"status": status,
			"to":     to,
		}).Info("whatsapp: статус доставки")
	}
}

func (s *Service) handleText(ctx context.Context, sess *Session, in IncomingMessage) {
	message := strings.TrimSpace(in.Body)

	if code, menu, ok := lang.ParseSwitch(message); ok {
		if menu {
			s.reply(ctx, in.From, lang.Menu())
			return
		}
		s.sessions.SetLanguage(in.From, code)
		s.reply(ctx, in.From, lang.SwitchConfirmation(code))
		return
	}

	language := sess.Language
	if language == "" {
		language = lang.Detect(message)
		s.sessions.SetLanguage(in.From, language)
	}

	if lang.IsGreeting(message) {
		s.reply(ctx, in.From, lang.Welcome(language))
		return
	}
	if lang.IsClear(message) {
		if err := s.chats.Clear(ctx, sess.UserID); err != nil && logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"userId": sess.UserID,
				"error":  err.Error(),
			}).Warn("whatsapp: не удалось очистить историю")
		}
		s.sessions.Drop(in.From)
		s.reply(ctx, in.From, lang.Cleared(language))
		return
	}

	answer, _, err := s.chats.Converse(ctx, s.callerFor(sess), message, language, models.ChatChannelWhatsApp)
	if err != nil {
		s.logFailure(sess.UserID, "диалог", err)
		s.reply(ctx, in.From, lang.Apology(language))
		return
	}
	s.reply(ctx, in.From, answer)
}

func (s *Service) handleVoice(ctx context.Context, sess *Session, in IncomingMessage) {
	language := sess.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	data, contentType, err := s.twilio.FetchMedia(ctx, in.MediaURL)
	if err != nil {
		s.logFailure(sess.UserID, "загрузка голосового", err)
		s.reply(ctx, in.From, lang.DownloadFailed(language))
		return
	}
	if contentType == "" {
		contentType = in.MediaContentType
	}

	if s.transcriber == nil {
		s.reply(ctx, in.From, lang.TranscriptionFailed(language))
		return
	}
	transcript, err := s.transcriber.Transcribe(ctx, contentType, data)
	transcript = strings.TrimSpace(transcript)
	if err != nil || transcript == "" {
		if err != nil {
			s.logFailure(sess.UserID, "расшифровка голосового", err)
		}
		s.reply(ctx, in.From, lang.TranscriptionFailed(language))
		return
	}

	// Уверенная расшифровка уточняет язык диалога.
	if detected := lang.Detect(transcript); detected != language && len([]rune(transcript)) > 10 {
		s.sessions.SetLanguage(in.From, detected)
		language = detected
	}

	message := transcript
	if caption := strings.TrimSpace(in.Body); caption != "" {
		message = fmt.Sprintf("Voice message: '%s'. Additional text: %s", transcript, caption)
	}

	answer, _, err := s.chats.Converse(ctx, s.callerFor(sess), message, language, models.ChatChannelWhatsApp)
	if err != nil {
		s.logFailure(sess.UserID, "диалог по голосовому", err)
		s.reply(ctx, in.From, lang.Apology(language))
		return
	}

	text := fmt.Sprintf(lang.VoiceReplyFormat(language), transcript, answer)
	if s.sendSpoken(ctx, sess, in.From, transcript, answer, text, language) {
		return
	}
	s.reply(ctx, in.From, text)
}

// sendSpoken озвучивает ответ и шлёт его вложением. false означает,
// что нужно отправить обычный текст.
func (s *Service) sendSpoken(ctx context.Context, sess *Session, to, question, answer, caption, language string) bool {
	if s.tts == nil || !s.tts.Configured() || s.media == nil {
		return false
	}

	spoken := fmt.Sprintf(lang.SpokenReplyFormat(language), clip(question, 100), clip(answer, 300))
	audio, err := s.tts.Synthesize(ctx, spoken, language)
	if err != nil {
		s.logFailure(sess.UserID, "синтез речи", err)
		return false
	}

	obj, err := s.media.Put(ctx, "tts", sess.UserID, audio)
	if err != nil {
		s.logFailure(sess.UserID, "сохранение озвучки", err)
		return false
	}
	link, err := s.media.PresignedGet(ctx, obj.Key, 24*time.Hour)
	if err != nil {
		s.logFailure(sess.UserID, "ссылка на озвучку", err)
		return false
	}
	if err := s.twilio.SendMedia(ctx, to, link, caption); err != nil {
		s.logFailure(sess.UserID, "отправка озвучки", err)
		return false
	}
	return true
}

func (s *Service) handleImage(ctx context.Context, sess *Session, in IncomingMessage) {
	language := sess.Language
	if language == "" {
		language = models.LanguageEnglish
	}

	data, _, err := s.twilio.FetchMedia(ctx, in.MediaURL)
	if err != nil {
		s.logFailure(sess.UserID, "загрузка фото", err)
		s.reply(ctx, in.From, "❌ Sorry, I couldn't download the image. Please try again.")
		return
	}

	if s.images == nil {
		s.reply(ctx, in.From, lang.Apology(language))
		return
	}
	report, err := s.images.AnalyzeImage(ctx, data)
	if err != nil {
		s.logFailure(sess.UserID, "анализ фото", err)
		s.reply(ctx, in.From, "❌ Sorry, I encountered an error analyzing the image. Please try again.")
		return
	}

	caption := strings.TrimSpace(in.Body)
	if caption == "" {
		s.reply(ctx, in.From, formatDiseaseReport(report))
		return
	}

	// Вопрос с фото уходит агенту вместе с результатом анализа.
	analysis, _ := json.Marshal(report)
	combined := fmt.Sprintf("I uploaded a crop photo. Vision analysis: %s. %s", analysis, caption)
	answer, _, err := s.chats.Converse(ctx, s.callerFor(sess), combined, language, models.ChatChannelWhatsApp)
	if err != nil {
		s.logFailure(sess.UserID, "диалог по фото", err)
		s.reply(ctx, in.From, lang.Apology(language))
		return
	}
	s.reply(ctx, in.From, answer)
}

func (s *Service) callerFor(sess *Session) service.Caller {
	return service.Caller{
		ID:       sess.UserID,
		Name:     sess.UserID,
		UserType: models.UserTypeFarmer,
	}
}

func (s *Service) reply(ctx context.Context, to, body string) {
	if err := s.twilio.SendText(ctx, to, body); err != nil && logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		}).Error("whatsapp: не удалось отправить ответ")
	}
}

func (s *Service) logFailure(userID, stage string, err error) {
	if logger.Log != nil {
		logger.Log.WithFields(map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		}).Warn("whatsapp: сбой на этапе: " + stage)
	}
}

// formatDiseaseReport собирает текстовый ответ по фото без вопроса.
func formatDiseaseReport(report *models.DiseaseReport) string {
	var sb strings.Builder
	sb.WriteString("🔍 *Crop Health Analysis*\n\n")
	sb.WriteString("Condition: " + report.Condition)
	if report.Confidence > 0 {
		fmt.Fprintf(&sb, " (%.0f%% confidence)", report.Confidence*100)
	}
	sb.WriteString("\n")
	if len(report.Treatments) > 0 {
		sb.WriteString("\nRecommended actions:\n")
		for _, treatment := range report.Treatments {
			sb.WriteString("• " + treatment + "\n")
		}
	}
	sb.WriteString("\n💡 *Need more help?* Ask specific questions!")
	return sb.String()
}

// clip укорачивает строку для озвучки.
func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
