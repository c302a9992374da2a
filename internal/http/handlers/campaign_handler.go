package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/service"
)

// CampaignHandler обслуживает реестр кампаний контрактного земледелия.
type CampaignHandler struct {
	campaigns *service.CampaignService
	bids      *service.BidService
}

// NewCampaignHandler создаёт хэндлер.
func NewCampaignHandler(campaigns *service.CampaignService, bids *service.BidService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, bids: bids}
}

// campaignRequest — общее тело создания и обновления кампании.
type campaignRequest struct {
	Title            string `json:"title"`
	Crop             string `json:"crop"`
	CropType         string `json:"cropType"`
	Location         string `json:"location"`
	Duration         string `json:"duration"`
	EstimatedYield   string `json:"estimatedYield"`
	MinimumQuotation string `json:"minimumQuotation"`
	Notes            string `json:"notes"`
	CurrentBid       string `json:"currentBid"`
	Status           string `json:"status"`
	UserType         string `json:"userType"`
	UserID           string `json:"userId"`
}

// List обрабатывает GET /api/campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.campaigns.ListCampaigns(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, campaigns)
}

// ListByStatus обрабатывает GET /api/campaigns/status/:status.
func (h *CampaignHandler) ListByStatus(c *gin.Context) {
	campaigns, err := h.campaigns.ListCampaignsByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, campaigns)
}

// Get обрабатывает GET /api/campaigns/:id.
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.campaigns.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, campaign)
}

// GetWithBids обрабатывает GET /api/campaigns/:id/bids — кампания вместе
// со ставками и сводкой сумм.
func (h *CampaignHandler) GetWithBids(c *gin.Context) {
	result, err := h.bids.CampaignWithBids(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// Create обрабатывает POST /api/campaigns.
func (h *CampaignHandler) Create(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	campaign, err := h.campaigns.CreateCampaign(c.Request.Context(), service.CreateCampaignInput{
		Title:            req.Title,
		Crop:             req.Crop,
		CropType:         req.CropType,
		Location:         req.Location,
		Duration:         req.Duration,
		EstimatedYield:   req.EstimatedYield,
		MinimumQuotation: req.MinimumQuotation,
		Notes:            req.Notes,
		CurrentBid:       req.CurrentBid,
		Status:           req.Status,
		UserType:         req.UserType,
		UserID:           req.UserID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, campaign)
}

// Update обрабатывает PUT /api/campaigns/:id.
func (h *CampaignHandler) Update(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	campaign, err := h.campaigns.UpdateCampaign(c.Request.Context(), c.Param("id"), service.UpdateCampaignInput{
		Title:            req.Title,
		Crop:             req.Crop,
		CropType:         req.CropType,
		Location:         req.Location,
		Duration:         req.Duration,
		EstimatedYield:   req.EstimatedYield,
		MinimumQuotation: req.MinimumQuotation,
		Notes:            req.Notes,
		CurrentBid:       req.CurrentBid,
		Status:           req.Status,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, campaign)
}

// Delete обрабатывает DELETE /api/campaigns/:id.
func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.campaigns.DeleteCampaign(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Campaign deleted successfully"})
}
