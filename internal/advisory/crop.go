package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/models"
)

// CropModelClient обращается к внешнему серверу модели подбора культур.
type CropModelClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCropModelClient создаёт клиент модели. Пустой baseURL означает,
// что модель не подключена.
func NewCropModelClient(baseURL string) *CropModelClient {
	return &CropModelClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured возвращает true, если URL модели задан.
func (c *CropModelClient) Configured() bool {
	return c != nil && c.baseURL != ""
}

type cropModelResponse struct {
	Predictions []struct {
		Crop        string  `json:"crop"`
		Probability float64 `json:"probability"`
	} `json:"predictions"`
}

// Predict отправляет показатели почвы на сервер модели и возвращает
// культуры по убыванию вероятности.
func (c *CropModelClient) Predict(ctx context.Context, reading models.SoilReading) ([]models.CropScore, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("crop model: URL не задан")
	}

	body, err := json.Marshal(reading)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("crop model: код ответа %d", resp.StatusCode)
	}

	var result cropModelResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Predictions) == 0 {
		return nil, fmt.Errorf("crop model: пустой ответ")
	}

	scores := make([]models.CropScore, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		scores = append(scores, models.CropScore{Crop: p.Crop, Confidence: p.Probability})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Confidence > scores[j].Confidence })
	if len(scores) > 3 {
		scores = scores[:3]
	}
	return scores, nil
}

// RecommendCrop подбирает топ-3 культур. Основной путь — внешняя модель,
// при недоступности работает эвристика по кислотности почвы.
func (a *Advisor) RecommendCrop(ctx context.Context, reading models.SoilReading) (*models.CropRecommendation, error) {
	if a.cropModel.Configured() {
		scores, err := a.cropModel.Predict(ctx, reading)
		if err == nil {
			return &models.CropRecommendation{
				Crops:  scores,
				Source: "model",
				Note:   "Based on AI analysis of your soil and weather conditions",
			}, nil
		}
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).
				Warn("advisory: модель подбора культур недоступна, переходим на эвристику")
		}
	}

	var crops []string
	switch {
	case reading.PH < 6.0:
		crops = []string{"tea", "potato", "rice"}
	case reading.PH > 8.0:
		crops = []string{"wheat", "barley", "sugarcane"}
	default:
		crops = []string{"wheat", "rice", "corn"}
	}

	scores := make([]models.CropScore, 0, len(crops))
	for _, crop := range crops {
		scores = append(scores, models.CropScore{Crop: crop})
	}
	return &models.CropRecommendation{
		Crops:  scores,
		Source: "heuristic",
		Note:   "Based on general soil condition analysis (ML model not available)",
	}, nil
}
