package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/validation"
)

// UserRepositoryForAuth описывает зависимости AuthService от слоя хранилища.
type UserRepositoryForAuth interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService инкапсулирует регистрацию и аутентификацию.
type AuthService struct {
	users        UserRepositoryForAuth
	tokenManager *TokenManager
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Password          string `json:"password"`
	UserType          string `json:"userType"`
	Location          string `json:"location"`
	PreferredLanguage string `json:"preferredLanguage"`
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User `json:"user"`
	TokenPair *TokenPair   `json:"tokens"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users UserRepositoryForAuth, tokenManager *TokenManager) *AuthService {
	return &AuthService{users: users, tokenManager: tokenManager}
}

// Register создаёт нового пользователя и выпускает токены.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	userType := in.UserType
	if userType == "" {
		userType = models.UserTypeFarmer
	}
	if err := validation.ValidateUserType(userType); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	language := in.PreferredLanguage
	if language != "" && !models.ValidLanguages[language] {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "preferredLanguage must be en, hi or kn")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "Email is already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error creating user")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Error creating user")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Email:             email,
		Phone:             in.Phone,
		PasswordHash:      string(passHash),
		UserType:          userType,
		Location:          in.Location,
		PreferredLanguage: language,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "Email is already registered")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error creating user")
	}

	tokenPair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Error creating user")
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Не раскрываем, существует ли email.
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	tokenPair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Error logging in")
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Refresh выпускает новую пару токенов по refresh токену.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "Invalid refresh token")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error refreshing token")
	}

	tokenPair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Error refreshing token")
	}
	return tokenPair, nil
}

// Me возвращает профиль по идентификатору из access токена.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching user")
	}
	return user, nil
}
