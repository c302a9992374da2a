package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/service"
)

// SeedHandler позволяет наполнить стенд демо-данными. Маршрут
// регистрируется только вне production-окружения.
type SeedHandler struct {
	seeder *service.SeedService
}

// NewSeedHandler создаёт хэндлер.
func NewSeedHandler(seeder *service.SeedService) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// Seed обрабатывает POST /api/dev/seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	if err := h.seeder.SeedDemoData(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Demo data seeded"})
}
