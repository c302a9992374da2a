package models

import "time"

// Contract — итоговая запись о принятой ставке. Создаётся движком торгов
// ровно один раз как производная от ставки и её кампании; пользовательские
// операции контракт не создают.
type Contract struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Crop               string    `json:"crop"`
	CropType           string    `json:"cropType"`
	Location           string    `json:"location"`
	Duration           string    `json:"duration"`
	EstimatedYield     string    `json:"estimatedYield"`
	MinimumQuotation   string    `json:"minimumQuotation"`
	CurrentBid         string    `json:"currentBid"`
	TotalBids          int       `json:"totalBids"`
	Status             string    `json:"status"`
	ContractStatus     string    `json:"contractStatus"`
	FarmerID           string    `json:"farmerId,omitempty"`
	FarmerName         string    `json:"farmerName"`
	BuyerID            string    `json:"buyerId,omitempty"`
	BuyerName          string    `json:"buyerName"`
	CurrentStage       string    `json:"currentStage,omitempty"`
	AgreedPrice        string    `json:"agreedPrice"`
	OriginalCampaignID string    `json:"originalCampaignId,omitempty"`
	OriginalBidID      string    `json:"originalBidId,omitempty"`
	DeliveryTerms      string    `json:"deliveryTerms"`
	QualityGrade       string    `json:"qualityGrade"`
	ContractNotes      string    `json:"contractNotes"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
