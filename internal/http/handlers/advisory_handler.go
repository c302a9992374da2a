package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/advisory"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
)

// maxInlineImageBytes ограничивает размер фото в запросе диагностики.
const maxInlineImageBytes = 10 << 20

// AdvisoryHandler — HTTP поверхность агрономических консультаций.
type AdvisoryHandler struct {
	advisor *advisory.Advisor
}

// NewAdvisoryHandler создаёт хэндлер.
func NewAdvisoryHandler(advisor *advisory.Advisor) *AdvisoryHandler {
	return &AdvisoryHandler{advisor: advisor}
}

// RecommendCrop обрабатывает POST /api/advisory/crop-recommendation.
func (h *AdvisoryHandler) RecommendCrop(c *gin.Context) {
	var req models.SoilReading
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	recommendation, err := h.advisor.RecommendCrop(c.Request.Context(), req)
	if err != nil {
		fail(c, apperror.Wrap(err, apperror.ErrCodeInternal, "Error recommending crop"))
		return
	}
	ok(c, recommendation)
}

// AnalyzeDisease обрабатывает POST /api/advisory/disease-analysis.
// Принимает либо multipart с фото растения, либо JSON с описанием
// симптомов; фото уходит vision-модели, текст — базе знаний.
func (h *AdvisoryHandler) AnalyzeDisease(c *gin.Context) {
	if file, err := c.FormFile("image"); err == nil {
		h.analyzeImage(c, file)
		return
	}

	var req struct {
		Symptoms string `json:"symptoms" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ok(c, h.advisor.AnalyzeSymptoms(req.Symptoms))
}

func (h *AdvisoryHandler) analyzeImage(c *gin.Context, file *multipart.FileHeader) {
	if file.Size > maxInlineImageBytes {
		fail(c, apperror.New(apperror.ErrCodeBadRequest, "Image exceeds the 10 MB limit"))
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, "Cannot read the uploaded image"))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxInlineImageBytes))
	if err != nil {
		fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, "Cannot read the uploaded image"))
		return
	}

	report, err := h.advisor.AnalyzeImage(c.Request.Context(), data)
	if err != nil {
		fail(c, apperror.Wrap(err, apperror.ErrCodeBadRequest, err.Error()))
		return
	}
	ok(c, report)
}

// Schemes обрабатывает GET /api/advisory/schemes?q=.
func (h *AdvisoryHandler) Schemes(c *gin.Context) {
	ok(c, h.advisor.Schemes(c.Query("q")))
}

// NPK обрабатывает GET /api/advisory/npk/:crop.
func (h *AdvisoryHandler) NPK(c *gin.Context) {
	ok(c, h.advisor.NPKPlan(c.Param("crop")))
}

// Planning обрабатывает GET /api/advisory/planning/:crop.
func (h *AdvisoryHandler) Planning(c *gin.Context) {
	advice, err := h.advisor.Planning(c.Param("crop"))
	if err != nil {
		var noData *advisory.ErrNoPlanningData
		if errors.As(err, &noData) {
			fail(c, apperror.New(apperror.ErrCodeNotFound, err.Error()))
			return
		}
		fail(c, apperror.Wrap(err, apperror.ErrCodeInternal, "Error fetching crop planning"))
		return
	}
	ok(c, advice)
}

// Weather обрабатывает GET /api/advisory/weather.
func (h *AdvisoryHandler) Weather(c *gin.Context) {
	ok(c, h.advisor.Weather())
}
