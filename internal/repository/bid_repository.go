package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
)

const bidCollection = "bids"

// BidFilter — фильтры выборки ставок. Пустые поля не участвуют в выборке.
type BidFilter struct {
	CampaignID string
	BidderType string
	Status     string
}

// BidRepository отвечает за доступ к коллекции bids.
type BidRepository struct {
	store docstore.Store
}

// NewBidRepository создаёт репозиторий ставок.
func NewBidRepository(store docstore.Store) *BidRepository {
	return &BidRepository{store: store}
}

// Create сохраняет новую ставку.
func (r *BidRepository) Create(ctx context.Context, bid *models.Bid) error {
	if err := r.store.Add(ctx, bidCollection, bid.ID, bid); err != nil {
		return fmt.Errorf("bid repository: create: %w", err)
	}
	return nil
}

// GetByID возвращает ставку по идентификатору.
func (r *BidRepository) GetByID(ctx context.Context, id string) (*models.Bid, error) {
	var bid models.Bid
	err := r.store.Get(ctx, bidCollection, id, &bid)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bid repository: get by id: %w", err)
	}
	return &bid, nil
}

// Update атомарно изменяет ставку через fn.
func (r *BidRepository) Update(ctx context.Context, id string, fn func(*models.Bid) error) (*models.Bid, error) {
	bid, err := updateDoc(ctx, r.store, bidCollection, id, fn)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bid repository: update: %w", err)
	}
	return bid, nil
}

// Delete удаляет ставку.
func (r *BidRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, bidCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrBidNotFound
	}
	if err != nil {
		return fmt.Errorf("bid repository: delete: %w", err)
	}
	return nil
}

// List возвращает ставки, удовлетворяющие фильтру.
func (r *BidRepository) List(ctx context.Context, filter BidFilter) ([]models.Bid, error) {
	var filters []docstore.Filter
	if filter.CampaignID != "" {
		filters = append(filters, docstore.Filter{Field: "campaignId", Value: filter.CampaignID})
	}
	if filter.BidderType != "" {
		filters = append(filters, docstore.Filter{Field: "bidderType", Value: filter.BidderType})
	}
	if filter.Status != "" {
		filters = append(filters, docstore.Filter{Field: "status", Value: filter.Status})
	}

	var bids []models.Bid
	if err := r.store.Query(ctx, bidCollection, filters, &bids); err != nil {
		return nil, fmt.Errorf("bid repository: list: %w", err)
	}
	return bids, nil
}

// ListByCampaign возвращает все ставки кампании.
func (r *BidRepository) ListByCampaign(ctx context.Context, campaignID string) ([]models.Bid, error) {
	return r.List(ctx, BidFilter{CampaignID: campaignID})
}
