package advisory

import (
	"strings"

	"github.com/agrimitra/backend/internal/models"
)

// schemeCatalogue — центральные программы поддержки фермеров.
var schemeCatalogue = []models.Scheme{
	{
		Name:        "PM-KISAN",
		Description: "Direct income support to farmers",
		Eligibility: "All landholding farmers",
		Benefit:     "₹6,000 per year in 3 installments",
		Application: "Online through PM-KISAN portal",
	},
	{
		Name:        "PMFBY",
		Description: "Pradhan Mantri Fasal Bima Yojana crop insurance",
		Eligibility: "All farmers including sharecroppers",
		Benefit:     "Crop insurance coverage",
		Application: "Through banks and CSCs",
	},
	{
		Name:        "KCC",
		Description: "Kisan Credit Card",
		Eligibility: "Farmers with land records",
		Benefit:     "Credit facility for farming needs",
		Application: "Through banks",
	},
}

// Schemes возвращает программы, подходящие под поисковый запрос.
// Пустой запрос возвращает весь каталог.
func (a *Advisor) Schemes(query string) []models.Scheme {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		result := make([]models.Scheme, len(schemeCatalogue))
		copy(result, schemeCatalogue)
		return result
	}

	var result []models.Scheme
	for _, scheme := range schemeCatalogue {
		haystack := strings.ToLower(scheme.Name + " " + scheme.Description + " " + scheme.Benefit)
		if strings.Contains(haystack, query) {
			result = append(result, scheme)
		}
	}
	if result == nil {
		result = []models.Scheme{}
	}
	return result
}
