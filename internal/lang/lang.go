// Package lang определяет язык сообщений пользователя и хранит каталоги
// служебных ответов ассистента на en/hi/kn.
package lang

import (
	"strings"

	"github.com/agrimitra/backend/internal/models"
)

// names — английские названия поддерживаемых языков.
var names = map[string]string{
	models.LanguageEnglish: "English",
	models.LanguageHindi:   "Hindi",
	models.LanguageKannada: "Kannada",
}

// Supported сообщает, поддерживается ли код языка.
func Supported(code string) bool {
	_, ok := names[code]
	return ok
}

// Name возвращает английское название языка. Неизвестный код считается английским.
func Name(code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return names[models.LanguageEnglish]
}

// Detect определяет язык текста по письменности. Деванагари даёт хинди,
// каннада свою письменность, всё остальное считается английским.
// При смешанном тексте побеждает письменность с большим числом знаков.
func Detect(text string) string {
	var devanagari, kannada int
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case r >= 0x0C80 && r <= 0x0CFF:
			kannada++
		}
	}
	switch {
	case devanagari > kannada && devanagari > 0:
		return models.LanguageHindi
	case kannada > 0:
		return models.LanguageKannada
	default:
		return models.LanguageEnglish
	}
}

// ParseSwitch распознаёт явные языковые команды вида "language hi".
// menu=true означает запрос меню языков или неизвестный код.
func ParseSwitch(message string) (code string, menu, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(message))

	switch normalized {
	case "language", "languages", "भाषा", "ಭಾಷೆ":
		return "", true, true
	}

	for _, prefix := range []string{"language ", "भाषा ", "ಭಾಷೆ "} {
		if !strings.HasPrefix(normalized, prefix) {
			continue
		}
		requested := strings.TrimSpace(strings.TrimPrefix(normalized, prefix))
		if Supported(requested) {
			return requested, false, true
		}
		return "", true, true
	}
	return "", false, false
}

// greetings — приветствия, на которые отвечаем готовым welcome-сообщением.
var greetings = map[string]bool{
	"/start":  true,
	"hi":      true,
	"hello":   true,
	"start":   true,
	"नमस्ते":  true,
	"हैलो":    true,
	"हाय":     true,
	"ನಮಸ್ಕಾರ": true,
}

// IsGreeting сообщает, является ли сообщение приветствием.
func IsGreeting(message string) bool {
	return greetings[strings.ToLower(strings.TrimSpace(message))]
}

// IsClear сообщает, просит ли пользователь сбросить диалог.
func IsClear(message string) bool {
	return strings.ToLower(strings.TrimSpace(message)) == "/clear"
}

// pick достаёт строку каталога с откатом на английский.
func pick(catalogue map[string]string, code string) string {
	if msg, ok := catalogue[code]; ok {
		return msg
	}
	return catalogue[models.LanguageEnglish]
}

// Menu возвращает меню выбора языка.
func Menu() string {
	return `🌐 *Choose Your Language:*

*EN* - English
*HI* - Hindi / हिंदी
*KN* - Kannada / ಕನ್ನಡ

💬 *Example:* Send 'language hi' for Hindi
*उदाहरण:* हिंदी के लिए 'language hi' भेजें
*ಉದಾಹರಣೆ:* ಕನ್ನಡಕ್ಕಾಗಿ 'language kn' ಕಳುಹಿಸಿ`
}

var switchConfirmations = map[string]string{
	models.LanguageEnglish: "✅ Language set to English! How can I help you?",
	models.LanguageHindi:   "✅ भाषा हिंदी में सेट की गई! मैं आपकी कैसे मदद कर सकता हूँ?",
	models.LanguageKannada: "✅ ಭಾಷೆ ಕನ್ನಡಕ್ಕೆ ಹೊಂದಿಸಲಾಗಿದೆ! ನಾನು ನಿಮಗೆ ಹೇಗೆ ಸಹಾಯ ಮಾಡಬಹುದು?",
}

// SwitchConfirmation подтверждает смену языка на самом выбранном языке.
func SwitchConfirmation(code string) string {
	return pick(switchConfirmations, code)
}

var welcomes = map[string]string{
	models.LanguageEnglish: `🌾 *Welcome to AgriMitra!*

I help with:
🏪 *Campaigns* - Create & view
🌱 *Crop Planning* - Recommendations & plans
📊 *Marketplace* - Bids and contracts
🏛️ *Gov Schemes* - Find relevant schemes
📸 *Image Analysis* - Send crop photos
🎤 *Voice Messages* - Speak in English, Hindi, or Kannada
🌐 *Languages* - Type 'language' to change

*How can I help you today?*`,
	models.LanguageHindi: `🌾 *एग्रीमित्र में आपका स्वागत है!*

मैं इसमें मदद करता हूँ:
🏪 *अभियान* - बनाएं और देखें
🌱 *फसल योजना* - सुझाव और योजनाएं
📊 *बाज़ार* - बिड और अनुबंध
🏛️ *सरकारी योजनाएं* - संबंधित योजनाएं खोजें
📸 *इमेज विश्लेषण* - फसल की तस्वीरें भेजें
🎤 *वॉयस संदेश* - अंग्रेजी, हिंदी या कन्नड़ में बोलें
🌐 *भाषाएं* - बदलने के लिए 'language' टाइप करें

*आज मैं आपकी कैसे मदद कर सकता हूँ?*`,
	models.LanguageKannada: `🌾 *ಅಗ್ರಿಮಿತ್ರಕ್ಕೆ ಸ್ವಾಗತ!*

ನಾನು ಇದರಲ್ಲಿ ಸಹಾಯ ಮಾಡುತ್ತೇನೆ:
🏪 *ಅಭಿಯಾನಗಳು* - ರಚಿಸಿ ಮತ್ತು ವೀಕ್ಷಿಸಿ
🌱 *ಬೆಳೆ ಯೋಜನೆ* - ಶಿಫಾರಸುಗಳು ಮತ್ತು ಯೋಜನೆಗಳು
📊 *ಮಾರುಕಟ್ಟೆ* - ಬಿಡ್‌ಗಳು ಮತ್ತು ಒಪ್ಪಂದಗಳು
🏛️ *ಸರ್ಕಾರಿ ಯೋಜನೆಗಳು* - ಸಂಬಂಧಿತ ಯೋಜನೆಗಳನ್ನು ಹುಡುಕಿ
📸 *ಚಿತ್ರ ವಿಶ್ಲೇಷಣೆ* - ಬೆಳೆ ಫೋಟೋಗಳನ್ನು ಕಳುಹಿಸಿ
🎤 *ಧ್ವನಿ ಸಂದೇಶಗಳು* - ಇಂಗ್ಲೀಷ್, ಹಿಂದಿ ಅಥವಾ ಕನ್ನಡದಲ್ಲಿ ಮಾತನಾಡಿ
🌐 *ಭಾಷೆಗಳು* - ಬದಲಾಯಿಸಲು 'language' ಟೈಪ್ ಮಾಡಿ

*ಇಂದು ನಾನು ನಿಮಗೆ ಹೇಗೆ ಸಹಾಯ ಮಾಡಬಹುದು?*`,
}

// Welcome возвращает приветственное сообщение ассистента.
func Welcome(code string) string {
	return pick(welcomes, code)
}

var cleared = map[string]string{
	models.LanguageEnglish: "🗑️ *Chat history cleared!* How can I help you today?",
	models.LanguageHindi:   "🗑️ *चैट इतिहास साफ़ किया गया!* आज मैं आपकी कैसे मदद कर सकता हूँ?",
	models.LanguageKannada: "🗑️ *ಚಾಟ್ ಇತಿಹಾಸ ತೆರವುಗೊಳಿಸಲಾಗಿದೆ!* ಇಂದು ನಾನು ನಿಮಗೆ ಹೇಗೆ ಸಹಾಯ ಮಾಡಬಹುದು?",
}

// Cleared подтверждает сброс истории диалога.
func Cleared(code string) string {
	return pick(cleared, code)
}

var apologies = map[string]string{
	models.LanguageEnglish: "❌ Sorry, I encountered an error. Please try again later.",
	models.LanguageHindi:   "❌ माफ़ करें, मुझे एक त्रुटि का सामना करना पड़ा। कृपया बाद में पुनः प्रयास करें।",
	models.LanguageKannada: "❌ ಕ್ಷಮಿಸಿ, ನಾನು ದೋಷವನ್ನು ಎದುರಿಸಿದೆ। ದಯವಿಟ್ಟು ನಂತರ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ।",
}

// Apology возвращает общее извинение при внутренней ошибке.
func Apology(code string) string {
	return pick(apologies, code)
}

var downloadFailed = map[string]string{
	models.LanguageEnglish: "❌ Couldn't download audio. Please try again.",
	models.LanguageHindi:   "❌ ऑडियो डाउनलोड नहीं हो सका। कृपया पुनः प्रयास करें।",
	models.LanguageKannada: "❌ ಆಡಿಯೋ ಡೌನ್‌ಲೋಡ್ ಆಗಲಿಲ್ಲ। ದಯವಿಟ್ಟು ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ।",
}

// DownloadFailed сообщает о неудачной загрузке вложения.
func DownloadFailed(code string) string {
	return pick(downloadFailed, code)
}

var transcriptionFailed = map[string]string{
	models.LanguageEnglish: `🎤 *Audio Processing Failed*

Sorry, I couldn't understand your voice message. Please try speaking clearly in a quiet place, or send a text message instead.`,
	models.LanguageHindi: `🎤 *ऑडियो प्रोसेसिंग असफल*

माफ़ करें, मैं आपका वॉयस मैसेज नहीं समझ सका। कृपया शांत जगह पर स्पष्ट बोलें, या टेक्स्ट मैसेज भेजें।`,
	models.LanguageKannada: `🎤 *ಆಡಿಯೋ ಪ್ರಕ್ರಿಯೆ ವಿಫಲವಾಗಿದೆ*

ಕ್ಷಮಿಸಿ, ನಿಮ್ಮ ಧ್ವನಿ ಸಂದೇಶವನ್ನು ನಾನು ಅರ್ಥಮಾಡಿಕೊಳ್ಳಲಾಗಲಿಲ್ಲ। ದಯವಿಟ್ಟು ಶಾಂತ ಸ್ಥಳದಲ್ಲಿ ಸ್ಪಷ್ಟವಾಗಿ ಮಾತನಾಡಿ, ಅಥವಾ ಪಠ್ಯ ಸಂದೇಶ ಕಳುಹಿಸಿ।`,
}

// TranscriptionFailed сообщает, что голосовое не удалось распознать.
func TranscriptionFailed(code string) string {
	return pick(transcriptionFailed, code)
}

// MediaUnsupported просит прислать поддерживаемое вложение.
func MediaUnsupported() string {
	return "📎 I can process images and audio messages. Please send photos of crops/soil or voice messages!"
}

var voiceReplies = map[string]string{
	models.LanguageEnglish: "🎤 *Voice Message:*\n\"%s\"\n\n📢 *Response:*\n%s",
	models.LanguageHindi:   "🎤 *वॉयस संदेश:*\n\"%s\"\n\n📢 *उत्तर:*\n%s",
	models.LanguageKannada: "🎤 *ಧ್ವನಿ ಸಂದೇಶ:*\n\"%s\"\n\n📢 *ಉತ್ತರ:*\n%s",
}

// VoiceReplyFormat возвращает формат текстового ответа на голосовое:
// первый %s подставляет расшифровку, второй ответ ассистента.
func VoiceReplyFormat(code string) string {
	return pick(voiceReplies, code)
}

var spokenReplies = map[string]string{
	models.LanguageEnglish: "You asked: %s. Here's my response: %s",
	models.LanguageHindi:   "आपने पूछा: %s। यहाँ मेरा उत्तर है: %s",
	models.LanguageKannada: "ನೀವು ಕೇಳಿದ್ದು: %s। ಇಲ್ಲಿ ನನ್ನ ಉತ್ತರ: %s",
}

// SpokenReplyFormat возвращает формат озвучиваемого ответа:
// первый %s подставляет вопрос, второй ответ.
func SpokenReplyFormat(code string) string {
	return pick(spokenReplies, code)
}
