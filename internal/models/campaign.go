package models

import "time"

// Campaign описывает кампанию контрактного земледелия: фермер предлагает
// будущий урожай либо покупатель размещает запрос на закупку.
// Денежные поля хранятся как отображаемые строки ("₹2000 per quintal").
type Campaign struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Crop              string    `json:"crop"`
	CropType          string    `json:"cropType"`
	Location          string    `json:"location"`
	Duration          string    `json:"duration"`
	Status            string    `json:"status"`
	EstimatedYield    string    `json:"estimatedYield"`
	MinimumQuotation  string    `json:"minimumQuotation,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CurrentBid        string    `json:"currentBid,omitempty"`
	TotalBids         int       `json:"totalBids"`
	UserType          string    `json:"userType"`
	UserID            string    `json:"userId,omitempty"`
	ContractID        string    `json:"contractId,omitempty"`
	FinalPrice        string    `json:"finalPrice,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CampaignWithBids — кампания вместе со ставками и их сводкой.
// Поля кампании разворачиваются в корень документа.
type CampaignWithBids struct {
	Campaign
	Bids            []Bid  `json:"bids"`
	ActiveBidsCount int    `json:"activeBidsCount"`
	HighestBid      string `json:"highestBid,omitempty"`
	LowestBid       string `json:"lowestBid,omitempty"`
}
