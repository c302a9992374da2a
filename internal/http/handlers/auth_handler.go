package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/http/handlers/common"
	"github.com/agrimitra/backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register обрабатывает POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name              string `json:"name" binding:"required"`
		Email             string `json:"email" binding:"required"`
		Phone             string `json:"phone"`
		Password          string `json:"password" binding:"required"`
		UserType          string `json:"userType"`
		Location          string `json:"location"`
		PreferredLanguage string `json:"preferredLanguage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Password:          req.Password,
		UserType:          req.UserType,
		Location:          req.Location,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		fail(c, err)
		return
	}

	created(c, gin.H{"user": result.User, "tokens": result.TokenPair})
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{"user": result.User, "tokens": result.TokenPair})
}

// Refresh обрабатывает POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tokenPair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{"tokens": tokenPair})
}

// Me обрабатывает GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, gin.H{"user": user})
}
