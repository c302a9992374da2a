package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/h2non/filetype"

	"github.com/agrimitra/backend/internal/models"
)

// allowedImageTypes — форматы, которые принимает vision-модель.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// VisionAnalyzer диагностирует болезнь по фотографии растения.
type VisionAnalyzer interface {
	AnalyzeCropImage(ctx context.Context, mimeType string, data []byte) (*models.DiseaseReport, error)
}

// symptomEntry — запись базы знаний по словесным описаниям симптомов.
type symptomEntry struct {
	keyword    string
	condition  string
	causes     []string
	treatments []string
}

// symptomKB проверяется по порядку, срабатывает первое совпадение.
var symptomKB = []symptomEntry{
	{
		keyword:   "yellow",
		condition: "Nitrogen deficiency",
		causes:    []string{"Nitrogen deficiency", "Overwatering", "Root rot", "Viral infection"},
		treatments: []string{
			"Apply nitrogen-rich fertilizer",
			"Improve drainage",
			"Reduce watering frequency",
			"Remove affected plants if viral",
		},
	},
	{
		keyword:   "spot",
		condition: "Fungal blight",
		causes:    []string{"Fungal infection", "Bacterial disease", "Nutrient deficiency"},
		treatments: []string{
			"Apply fungicide spray",
			"Improve air circulation",
			"Remove infected leaves",
			"Use copper-based bactericide",
		},
	},
	{
		keyword:   "wilt",
		condition: "Bacterial wilt or water stress",
		causes:    []string{"Water stress", "Root damage", "Bacterial wilt", "Fungal infection"},
		treatments: []string{
			"Check soil moisture",
			"Improve irrigation",
			"Apply organic matter",
			"Use disease-resistant varieties",
		},
	},
}

// AnalyzeImage диагностирует болезнь по фотографии через vision-модель.
// Принимает только jpeg и png.
func (a *Advisor) AnalyzeImage(ctx context.Context, data []byte) (*models.DiseaseReport, error) {
	if a.vision == nil {
		return nil, fmt.Errorf("advisory: vision-модель не подключена")
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, fmt.Errorf("advisory: не удалось определить тип файла")
	}
	if !allowedImageTypes[kind.MIME.Value] {
		return nil, fmt.Errorf("advisory: поддерживаются только jpeg и png, получен %q", kind.MIME.Value)
	}

	return a.vision.AnalyzeCropImage(ctx, kind.MIME.Value, data)
}

// AnalyzeSymptoms сопоставляет словесное описание с базой знаний.
// Всегда возвращает отчёт, даже если симптомы не распознаны.
func (a *Advisor) AnalyzeSymptoms(symptoms string) *models.DiseaseReport {
	lower := strings.ToLower(symptoms)
	for _, entry := range symptomKB {
		if strings.Contains(lower, entry.keyword) {
			return &models.DiseaseReport{
				Condition:  entry.condition,
				Causes:     entry.causes,
				Treatments: entry.treatments,
				Source:     "knowledge-base",
			}
		}
	}

	return &models.DiseaseReport{
		Condition: "Unrecognized symptoms",
		Treatments: []string{
			"Contact your local agricultural extension officer",
			"Take clear photos of affected plants",
			"Collect samples for laboratory testing",
			"Monitor the spread of symptoms",
		},
		Source: "knowledge-base",
	}
}
