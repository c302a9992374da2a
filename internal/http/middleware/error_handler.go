package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: хэндлеры складывают
// ошибку в контекст через c.Error, сюда приходит первый AppError и
// превращается в ответ с его статусом. Неизвестные ошибки маскируются
// под 500, подробности остаются только в логе.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		var appErr *apperror.AppError
		for _, ginErr := range c.Errors {
			if errors.As(ginErr.Err, &appErr) {
				break
			}
		}

		status := http.StatusInternalServerError
		message := "Internal server error"
		if appErr != nil {
			status = appErr.HTTPStatus
			message = appErr.Message
		}

		if logger.Log != nil && status >= http.StatusInternalServerError {
			logger.Log.WithFields(logrus.Fields{
				"error":  c.Errors.Last().Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		c.JSON(status, gin.H{"error": message})
	}
}
