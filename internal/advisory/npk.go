package advisory

import (
	"strings"

	"github.com/agrimitra/backend/internal/models"
)

type npkRequirement struct {
	N, P, K int
}

// npkTable — нормы внесения в кг/га по культурам.
var npkTable = map[string]npkRequirement{
	"rice":   {N: 120, P: 60, K: 40},
	"wheat":  {N: 120, P: 60, K: 40},
	"corn":   {N: 150, P: 75, K: 50},
	"tomato": {N: 150, P: 75, K: 50},
	"potato": {N: 180, P: 90, K: 100},
	"cotton": {N: 120, P: 60, K: 50},
}

// defaultNPK применяется для культур вне таблицы.
var defaultNPK = npkRequirement{N: 100, P: 50, K: 50}

// NPKPlan возвращает нормы удобрений и график внесения для культуры.
func (a *Advisor) NPKPlan(crop string) *models.NPKPlan {
	normalized := strings.ToLower(strings.TrimSpace(crop))
	req, ok := npkTable[normalized]
	if !ok {
		req = defaultNPK
	}

	return &models.NPKPlan{
		Crop:       normalized,
		Nitrogen:   req.N,
		Phosphorus: req.P,
		Potassium:  req.K,
		Schedule: []string{
			"Basal application at sowing: full dose of phosphorus, full dose of potassium, 25% of nitrogen",
			"Top dressing at vegetative stage: 50% of nitrogen",
			"Top dressing at reproductive stage: 25% of nitrogen",
		},
	}
}
