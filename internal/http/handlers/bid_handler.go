package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/service"
)

// BidHandler — HTTP поверхность движка торгов.
type BidHandler struct {
	bids *service.BidService
}

// NewBidHandler создаёт хэндлер.
func NewBidHandler(bids *service.BidService) *BidHandler {
	return &BidHandler{bids: bids}
}

// List обрабатывает GET /api/bids?campaign_id&bidder_type&status.
func (h *BidHandler) List(c *gin.Context) {
	bids, err := h.bids.ListBids(c.Request.Context(), repository.BidFilter{
		CampaignID: c.Query("campaign_id"),
		BidderType: c.Query("bidder_type"),
		Status:     c.Query("status"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	ok(c, bids)
}

// Get обрабатывает GET /api/bids/:id.
func (h *BidHandler) Get(c *gin.Context) {
	bid, err := h.bids.GetBid(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, bid)
}

// Create обрабатывает POST /api/bids.
func (h *BidHandler) Create(c *gin.Context) {
	var req struct {
		CampaignID    string `json:"campaignId" binding:"required"`
		BidderType    string `json:"bidderType" binding:"required"`
		BidderID      string `json:"bidderId"`
		BidderName    string `json:"bidderName" binding:"required"`
		BidAmount     string `json:"bidAmount" binding:"required"`
		Quantity      string `json:"quantity" binding:"required"`
		QualityGrade  string `json:"qualityGrade"`
		DeliveryTerms string `json:"deliveryTerms"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bid, message, err := h.bids.SubmitBid(c.Request.Context(), service.SubmitBidInput{
		CampaignID:    req.CampaignID,
		BidderType:    req.BidderType,
		BidderID:      req.BidderID,
		BidderName:    req.BidderName,
		BidAmount:     req.BidAmount,
		Quantity:      req.Quantity,
		QualityGrade:  req.QualityGrade,
		DeliveryTerms: req.DeliveryTerms,
		Notes:         req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, gin.H{"bid": bid, "message": message})
}

// Action обрабатывает PUT /api/bids/:id/action — accept, reject
// или counter_offer.
func (h *BidHandler) Action(c *gin.Context) {
	var req struct {
		Action        string `json:"action" binding:"required"`
		CounterAmount string `json:"counterAmount"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bid, message, err := h.bids.ApplyBidAction(c.Request.Context(), c.Param("id"), service.BidActionInput{
		Action:        req.Action,
		CounterAmount: req.CounterAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"bid": bid, "message": message})
}

// Stats обрабатывает GET /api/bids/stats.
func (h *BidHandler) Stats(c *gin.Context) {
	stats, err := h.bids.BidStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, stats)
}

// Delete обрабатывает DELETE /api/bids/:id. Операторское действие.
func (h *BidHandler) Delete(c *gin.Context) {
	if err := h.bids.DeleteBid(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Bid deleted successfully"})
}
