package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/agrimitra/backend/internal/advisory"
	"github.com/agrimitra/backend/internal/http/middleware"
	"github.com/agrimitra/backend/internal/models"
)

func newAdvisoryTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewAdvisoryHandler(advisory.NewAdvisor(nil, nil))

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/api/advisory/crop-recommendation", handler.RecommendCrop)
	r.POST("/api/advisory/disease-analysis", handler.AnalyzeDisease)
	r.GET("/api/advisory/schemes", handler.Schemes)
	r.GET("/api/advisory/npk/:crop", handler.NPK)
	r.GET("/api/advisory/planning/:crop", handler.Planning)
	r.GET("/api/advisory/weather", handler.Weather)
	return r
}

func TestAdvisoryHandler_RecommendCrop_Heuristic(t *testing.T) {
	r := newAdvisoryTestRouter(t)

	w := postJSON(r, "POST", "/api/advisory/crop-recommendation", models.SoilReading{
		Nitrogen:    90,
		Phosphorus:  42,
		Potassium:   43,
		Temperature: 25,
		Humidity:    80,
		PH:          6.5,
		Rainfall:    200,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var rec models.CropRecommendation
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.NotEmpty(t, rec.Crops)
	assert.Equal(t, "heuristic", rec.Source)
}

func TestAdvisoryHandler_AnalyzeDisease_Symptoms(t *testing.T) {
	r := newAdvisoryTestRouter(t)

	w := postJSON(r, "POST", "/api/advisory/disease-analysis", gin.H{
		"symptoms": "yellow leaves and stunted growth",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var report models.DiseaseReport
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Condition)
	assert.NotEmpty(t, report.Treatments)
}

func TestAdvisoryHandler_AnalyzeDisease_EmptyBody(t *testing.T) {
	r := newAdvisoryTestRouter(t)

	w := postJSON(r, "POST", "/api/advisory/disease-analysis", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvisoryHandler_Schemes_Filter(t *testing.T) {
	r := newAdvisoryTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/advisory/schemes?q=insurance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var schemes []models.Scheme
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &schemes))
	assert.NotEmpty(t, schemes)
}

func TestAdvisoryHandler_NPK_KnownCrop(t *testing.T) {
	r := newAdvisoryTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/advisory/npk/rice", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var plan models.NPKPlan
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, "rice", plan.Crop)
	assert.NotEmpty(t, plan.Schedule)
}

func TestAdvisoryHandler_Planning_UnknownCrop(t *testing.T) {
	r := newAdvisoryTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/advisory/planning/dragonfruit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdvisoryHandler_Weather(t *testing.T) {
	r := newAdvisoryTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/advisory/weather", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var weather models.Weather
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &weather))
	assert.Greater(t, weather.Temperature, 0.0)
}
