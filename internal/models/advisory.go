package models

// SoilReading — агрохимические показатели поля для подбора культуры.
type SoilReading struct {
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorus  float64 `json:"phosphorus"`
	Potassium   float64 `json:"potassium"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// CropScore — культура с оценкой пригодности.
type CropScore struct {
	Crop       string  `json:"crop"`
	Confidence float64 `json:"confidence"`
}

// CropRecommendation — топ-3 культур с пояснением источника оценки.
type CropRecommendation struct {
	Crops  []CropScore `json:"crops"`
	Source string      `json:"source"`
	Note   string      `json:"note,omitempty"`
}

// DiseaseReport — результат диагностики состояния растения.
type DiseaseReport struct {
	Condition  string   `json:"condition"`
	Confidence float64  `json:"confidence,omitempty"`
	Causes     []string `json:"causes,omitempty"`
	Treatments []string `json:"treatments"`
	Source     string   `json:"source"`
}

// Scheme — государственная программа поддержки фермеров.
type Scheme struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Eligibility string `json:"eligibility"`
	Benefit     string `json:"benefit"`
	Application string `json:"application"`
}

// NPKPlan — нормы внесения удобрений для культуры.
type NPKPlan struct {
	Crop       string   `json:"crop"`
	Nitrogen   int      `json:"nitrogenKgHa"`
	Phosphorus int      `json:"phosphorusKgHa"`
	Potassium  int      `json:"potassiumKgHa"`
	Schedule   []string `json:"schedule"`
}

// PlanningAdvice — календарь выращивания культуры в сезон.
type PlanningAdvice struct {
	Crop        string `json:"crop"`
	Season      string `json:"season"`
	SowingTime  string `json:"sowingTime"`
	Fertilizer  string `json:"fertilizer"`
	Irrigation  string `json:"irrigation"`
	HarvestTime string `json:"harvestTime"`
}

// Weather — сводка погоды для точки. Пока возвращается заглушка,
// провайдер не подключён.
type Weather struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}
