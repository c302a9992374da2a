// Package handlers содержит HTTP слой: разбор запросов gin, вызов
// сервисов и формирование ответов. Ошибки сервисов уходят в контекст
// и рендерятся централизованно middleware.ErrorHandler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/pkg/apperror"
)

// fail откладывает ошибку в контекст для централизованного рендера.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// badRequest отвечает 400 на ошибку разбора запроса.
func badRequest(c *gin.Context, err error) {
	fail(c, apperror.New(apperror.ErrCodeBadRequest, err.Error()))
}

// created отвечает 201 с телом.
func created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

// ok отвечает 200 с телом.
func ok(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
