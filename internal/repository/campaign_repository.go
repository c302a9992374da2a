package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
)

const campaignCollection = "campaigns"

// CampaignRepository отвечает за доступ к коллекции campaigns.
type CampaignRepository struct {
	store docstore.Store
}

// NewCampaignRepository создаёт репозиторий кампаний.
func NewCampaignRepository(store docstore.Store) *CampaignRepository {
	return &CampaignRepository{store: store}
}

// Create сохраняет новую кампанию.
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	if err := r.store.Add(ctx, campaignCollection, campaign.ID, campaign); err != nil {
		return fmt.Errorf("campaign repository: create: %w", err)
	}
	return nil
}

// GetByID возвращает кампанию по идентификатору.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.store.Get(ctx, campaignCollection, id, &campaign)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("campaign repository: get by id: %w", err)
	}
	return &campaign, nil
}

// Update атомарно изменяет кампанию через fn.
func (r *CampaignRepository) Update(ctx context.Context, id string, fn func(*models.Campaign) error) (*models.Campaign, error) {
	campaign, err := updateDoc(ctx, r.store, campaignCollection, id, fn)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("campaign repository: update: %w", err)
	}
	return campaign, nil
}

// Delete удаляет кампанию.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, campaignCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrCampaignNotFound
	}
	if err != nil {
		return fmt.Errorf("campaign repository: delete: %w", err)
	}
	return nil
}

// List возвращает все кампании.
func (r *CampaignRepository) List(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := r.store.All(ctx, campaignCollection, &campaigns); err != nil {
		return nil, fmt.Errorf("campaign repository: list: %w", err)
	}
	return campaigns, nil
}

// ListByStatus возвращает кампании с заданным статусом.
func (r *CampaignRepository) ListByStatus(ctx context.Context, status string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	filters := []docstore.Filter{{Field: "status", Value: status}}
	if err := r.store.Query(ctx, campaignCollection, filters, &campaigns); err != nil {
		return nil, fmt.Errorf("campaign repository: list by status: %w", err)
	}
	return campaigns, nil
}

// Count возвращает общее число кампаний.
func (r *CampaignRepository) Count(ctx context.Context) (int, error) {
	count, err := r.store.Count(ctx, campaignCollection)
	if err != nil {
		return 0, fmt.Errorf("campaign repository: count: %w", err)
	}
	return count, nil
}
