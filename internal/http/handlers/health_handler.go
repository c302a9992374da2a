package handlers

import (
	"github.com/gin-gonic/gin"
)

// HealthHandler отдаёт статус сервиса и тип используемого хранилища.
type HealthHandler struct {
	storeKind string
}

// NewHealthHandler создаёт хэндлер. storeKind — "memory" или "postgres".
func NewHealthHandler(storeKind string) *HealthHandler {
	return &HealthHandler{storeKind: storeKind}
}

// Check обрабатывает GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	ok(c, gin.H{
		"status":  "ok",
		"service": "agrimitra-backend",
		"store":   h.storeKind,
	})
}
