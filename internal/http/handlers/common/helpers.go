package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/http/middleware"
)

// ErrNoUser возвращается, когда в контексте запроса нет пользователя.
var ErrNoUser = errors.New("user is not present in the request context")

// CurrentUserID достаёт ID пользователя из контекста gin.
// Единая точка вместо дублей в каждом хэндлере.
func CurrentUserID(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return "", ErrNoUser
	}

	userID, ok := raw.(string)
	if !ok || userID == "" {
		return "", ErrNoUser
	}
	return userID, nil
}

// CurrentUserRole достаёт тип пользователя (farmer или buyer) из контекста.
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", ErrNoUser
	}

	role, ok := raw.(string)
	if !ok {
		return "", ErrNoUser
	}
	return role, nil
}

// RespondUnauthorized отправляет стандартный ответ 401.
func RespondUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
}

// ParseIntQuery читает целочисленный query-параметр с запасным значением.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
