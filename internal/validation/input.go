package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agrimitra/backend/internal/models"
)

// Константы валидации
const (
	MinCampaignTitleLength = 3
	MaxCampaignTitleLength = 200
	MaxCropLength          = 100
	MaxLocationLength      = 150
	MaxDurationLength      = 100
	MaxAmountLength        = 100
	MaxQuantityLength      = 100
	MaxNotesLength         = 2000
	MinNameLength          = 2
	MaxNameLength          = 100
	MinMessageLength       = 1
	MaxMessageLength       = 5000
	MaxPhoneLength         = 20
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("email local part must be 1 to 64 characters")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("email domain must be 1 to 255 characters")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("email local part contains invalid characters")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("invalid email domain format")
	}

	return nil
}

// ValidatePhone проверяет номер телефона (E.164 или локальный формат).
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}

	phone = strings.TrimSpace(phone)
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return fmt.Errorf("phone number must be at most %d characters", MaxPhoneLength)
	}

	phoneRegex := regexp.MustCompile(`^\+?[0-9][0-9 \-()]{5,}$`)
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number format")
	}

	return nil
}

// ValidateName проверяет имя пользователя или участника сделки.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}

	return ValidateLength("name", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateUserType проверяет роль участника.
func ValidateUserType(userType string) error {
	if !models.ValidUserTypes[userType] {
		return fmt.Errorf("userType must be farmer or buyer")
	}
	return nil
}

// ValidateCampaignTitle проверяет заголовок кампании.
func ValidateCampaignTitle(title string) error {
	if title == "" {
		return fmt.Errorf("campaign title is required")
	}

	return ValidateLength("campaign title", strings.TrimSpace(title), MinCampaignTitleLength, MaxCampaignTitleLength)
}

// ValidateCampaignStatus проверяет статус кампании.
func ValidateCampaignStatus(status string) error {
	if !models.ValidCampaignStatuses[status] {
		return fmt.Errorf("status must be active, completed or upcoming")
	}
	return nil
}

// ValidateBidStatus проверяет статус ставки.
func ValidateBidStatus(status string) error {
	if !models.ValidBidStatuses[status] {
		return fmt.Errorf("status must be pending, accepted, rejected or counter_offered")
	}
	return nil
}

// ValidateOrderStatus проверяет статус заказа.
func ValidateOrderStatus(status string) error {
	if !models.ValidOrderStatuses[status] {
		return fmt.Errorf("status must be pending, shipped, delivered or cancelled")
	}
	return nil
}

// ValidateContractStatus проверяет статус контракта.
// Контракт наследует форму кампании, поэтому множество статусов общее;
// жизненный цикл контракта живёт в отдельном поле contractStatus.
func ValidateContractStatus(status string) error {
	if !models.ValidCampaignStatuses[status] {
		return fmt.Errorf("status must be active, completed or upcoming")
	}
	return nil
}

// ValidateBidAction проверяет действие над ставкой.
func ValidateBidAction(action string) error {
	if !models.ValidBidActions[action] {
		return fmt.Errorf("action must be accept, reject or counter_offer")
	}
	return nil
}

// ValidateAmount проверяет денежное поле.
// Суммы хранятся как свободные строки ("₹2000 per quintal"),
// поэтому проверяется только наличие и длина.
func ValidateAmount(fieldName, amount string) error {
	if strings.TrimSpace(amount) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return ValidateLength(fieldName, amount, 0, MaxAmountLength)
}

// ValidateNotes проверяет примечания к действию.
func ValidateNotes(notes string) error {
	return ValidateLength("notes", notes, 0, MaxNotesLength)
}

// ValidateMessageContent проверяет содержимое сообщения чата.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("message cannot be empty")
	}

	return ValidateLength("message", content, MinMessageLength, MaxMessageLength)
}
