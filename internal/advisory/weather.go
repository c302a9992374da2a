package advisory

import "github.com/agrimitra/backend/internal/models"

// Weather возвращает фиксированную сводку. Провайдер погоды не подключён,
// значения совпадают с теми, на которых калибровалась модель подбора культур.
func (a *Advisor) Weather() models.Weather {
	return models.Weather{
		Temperature: 27.5,
		Humidity:    75.0,
		Rainfall:    120.0,
	}
}
