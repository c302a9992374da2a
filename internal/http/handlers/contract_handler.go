package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/service"
)

// ContractHandler обслуживает реестр контрактов.
type ContractHandler struct {
	contracts *service.ContractService
}

// NewContractHandler создаёт хэндлер.
func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// contractRequest — общее тело создания и обновления контракта.
type contractRequest struct {
	Title              string `json:"title"`
	Crop               string `json:"crop"`
	CropType           string `json:"cropType"`
	Location           string `json:"location"`
	Duration           string `json:"duration"`
	EstimatedYield     string `json:"estimatedYield"`
	MinimumQuotation   string `json:"minimumQuotation"`
	CurrentBid         string `json:"currentBid"`
	TotalBids          int    `json:"totalBids"`
	Status             string `json:"status"`
	FarmerID           string `json:"farmerId"`
	FarmerName         string `json:"farmerName"`
	BuyerID            string `json:"buyerId"`
	BuyerName          string `json:"buyerName"`
	CurrentStage       string `json:"currentStage"`
	AgreedPrice        string `json:"agreedPrice"`
	OriginalCampaignID string `json:"originalCampaignId"`
	DeliveryTerms      string `json:"deliveryTerms"`
	QualityGrade       string `json:"qualityGrade"`
	ContractNotes      string `json:"contractNotes"`
}

// List обрабатывает GET /api/contracts.
func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contracts.ListContracts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, contracts)
}

// ListByStatus обрабатывает GET /api/contracts/status/:status.
func (h *ContractHandler) ListByStatus(c *gin.Context) {
	contracts, err := h.contracts.ListContractsByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, contracts)
}

// Get обрабатывает GET /api/contracts/:id.
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, contract)
}

// Create обрабатывает POST /api/contracts. Контракты из принятых ставок
// порождает движок торгов, этот маршрут — ручное заведение.
func (h *ContractHandler) Create(c *gin.Context) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	contract, err := h.contracts.CreateContract(c.Request.Context(), service.CreateContractInput{
		Title:              req.Title,
		Crop:               req.Crop,
		CropType:           req.CropType,
		Location:           req.Location,
		Duration:           req.Duration,
		EstimatedYield:     req.EstimatedYield,
		MinimumQuotation:   req.MinimumQuotation,
		CurrentBid:         req.CurrentBid,
		TotalBids:          req.TotalBids,
		Status:             req.Status,
		FarmerID:           req.FarmerID,
		FarmerName:         req.FarmerName,
		BuyerID:            req.BuyerID,
		BuyerName:          req.BuyerName,
		CurrentStage:       req.CurrentStage,
		AgreedPrice:        req.AgreedPrice,
		OriginalCampaignID: req.OriginalCampaignID,
		DeliveryTerms:      req.DeliveryTerms,
		QualityGrade:       req.QualityGrade,
		ContractNotes:      req.ContractNotes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, contract)
}

// Update обрабатывает PUT /api/contracts/:id.
func (h *ContractHandler) Update(c *gin.Context) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	contract, err := h.contracts.UpdateContract(c.Request.Context(), c.Param("id"), service.UpdateContractInput{
		Title:         req.Title,
		Status:        req.Status,
		CurrentStage:  req.CurrentStage,
		AgreedPrice:   req.AgreedPrice,
		DeliveryTerms: req.DeliveryTerms,
		QualityGrade:  req.QualityGrade,
		ContractNotes: req.ContractNotes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, contract)
}

// Delete обрабатывает DELETE /api/contracts/:id.
func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.contracts.DeleteContract(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Contract deleted successfully"})
}
