package advisory

import (
	"fmt"
	"strings"

	"github.com/agrimitra/backend/internal/models"
)

// ErrNoPlanningData возвращается для культур без календаря.
type ErrNoPlanningData struct {
	Crop string
}

func (e *ErrNoPlanningData) Error() string {
	return fmt.Sprintf("no planning data for crop %q", e.Crop)
}

// planningCalendar — сезонные календари выращивания.
var planningCalendar = map[string]models.PlanningAdvice{
	"wheat": {
		Crop:        "wheat",
		Season:      "rabi",
		SowingTime:  "November-December",
		Fertilizer:  "120 kg/ha Nitrogen, 60 kg/ha Phosphorus",
		Irrigation:  "4-6 irrigations needed",
		HarvestTime: "April-May",
	},
	"rice": {
		Crop:        "rice",
		Season:      "kharif",
		SowingTime:  "June-July",
		Fertilizer:  "120 kg/ha Nitrogen, 60 kg/ha Phosphorus, 40 kg/ha Potash",
		Irrigation:  "Standing water required",
		HarvestTime: "October-November",
	},
	"tomato": {
		Crop:        "tomato",
		Season:      "winter",
		SowingTime:  "October-November",
		Fertilizer:  "150 kg/ha Nitrogen, 75 kg/ha Phosphorus, 50 kg/ha Potash",
		Irrigation:  "Regular watering, avoid waterlogging",
		HarvestTime: "January-March",
	},
}

// Planning возвращает календарь выращивания культуры.
func (a *Advisor) Planning(crop string) (*models.PlanningAdvice, error) {
	normalized := strings.ToLower(strings.TrimSpace(crop))
	advice, ok := planningCalendar[normalized]
	if !ok {
		return nil, &ErrNoPlanningData{Crop: crop}
	}
	return &advice, nil
}
