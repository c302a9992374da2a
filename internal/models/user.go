package models

import "time"

// User — учётная запись фермера или покупателя.
// Хэш пароля никогда не сериализуется в ответы API.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	PasswordHash      string    `json:"-"`
	UserType          string    `json:"userType"`
	Location          string    `json:"location,omitempty"`
	PreferredLanguage string    `json:"preferredLanguage,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
