// Package advisory содержит агрономические справочники и адаптеры
// внешних моделей: подбор культуры, диагностика болезней, нормы NPK,
// календари выращивания, госпрограммы и погодная сводка.
package advisory

// Advisor объединяет все консультационные операции ассистента.
type Advisor struct {
	cropModel *CropModelClient
	vision    VisionAnalyzer
}

// NewAdvisor создаёт консультанта. cropModel и vision могут быть nil,
// тогда соответствующие операции работают в режиме эвристик.
func NewAdvisor(cropModel *CropModelClient, vision VisionAnalyzer) *Advisor {
	return &Advisor{cropModel: cropModel, vision: vision}
}
