package models

import "time"

// Bid — ценовое предложение по кампании от противоположной стороны.
// campaignId намеренно не проверяется на существование: кампании могут
// жить в другом экземпляре хранилища (кросс-сервисный сценарий).
type Bid struct {
	ID            string    `json:"id"`
	CampaignID    string    `json:"campaignId"`
	BidderType    string    `json:"bidderType"`
	BidderID      string    `json:"bidderId,omitempty"`
	BidderName    string    `json:"bidderName"`
	BidAmount     string    `json:"bidAmount"`
	Quantity      string    `json:"quantity"`
	QualityGrade  string    `json:"qualityGrade"`
	DeliveryTerms string    `json:"deliveryTerms,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CounterAmount string    `json:"counterAmount,omitempty"`
	ActionNotes   string    `json:"actionNotes,omitempty"`
	RejectedBy    string    `json:"rejectedBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BidStats — сводная статистика торгов.
type BidStats struct {
	TotalCampaigns      int    `json:"totalCampaigns"`
	ActiveBids          int    `json:"activeBids"`
	SuccessfulContracts int    `json:"successfulContracts"`
	AverageBidAmount    string `json:"averageBidAmount,omitempty"`
}
