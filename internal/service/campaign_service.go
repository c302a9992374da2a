package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/validation"
)

// CampaignRepository описывает взаимодействие сервиса с кампаниями.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	Update(ctx context.Context, id string, fn func(*models.Campaign) error) (*models.Campaign, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Campaign, error)
	ListByStatus(ctx context.Context, status string) ([]models.Campaign, error)
}

// CreateCampaignInput данные новой кампании.
type CreateCampaignInput struct {
	Title            string
	Crop             string
	CropType         string
	Location         string
	Duration         string
	EstimatedYield   string
	MinimumQuotation string
	Notes            string
	CurrentBid       string
	Status           string
	UserType         string
	UserID           string
}

// UpdateCampaignInput изменяемые поля кампании. Пустые поля сохраняют
// прежние значения.
type UpdateCampaignInput struct {
	Title            string
	Crop             string
	CropType         string
	Location         string
	Duration         string
	EstimatedYield   string
	MinimumQuotation string
	Notes            string
	CurrentBid       string
	Status           string
}

// CampaignService — реестр кампаний контрактного земледелия.
type CampaignService struct {
	repo CampaignRepository
}

func NewCampaignService(repo CampaignRepository) *CampaignService {
	return &CampaignService{repo: repo}
}

// CreateCampaign создаёт кампанию. Статус по умолчанию upcoming,
// создатель по умолчанию фермер.
func (s *CampaignService) CreateCampaign(ctx context.Context, input CreateCampaignInput) (*models.Campaign, error) {
	if err := validation.ValidateCampaignTitle(input.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	required := []struct {
		field string
		value string
	}{
		{"crop", input.Crop},
		{"cropType", input.CropType},
		{"location", input.Location},
		{"duration", input.Duration},
		{"estimatedYield", input.EstimatedYield},
	}
	for _, r := range required {
		if err := validation.ValidateNonEmpty(r.field, r.value); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}

	status := input.Status
	if status == "" {
		status = models.CampaignStatusUpcoming
	}
	if err := validation.ValidateCampaignStatus(status); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	userType := input.UserType
	if userType == "" {
		userType = models.UserTypeFarmer
	}
	if err := validation.ValidateUserType(userType); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	now := time.Now()
	campaign := &models.Campaign{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(input.Title),
		Crop:             input.Crop,
		CropType:         input.CropType,
		Location:         input.Location,
		Duration:         input.Duration,
		Status:           status,
		EstimatedYield:   input.EstimatedYield,
		MinimumQuotation: input.MinimumQuotation,
		Notes:            input.Notes,
		CurrentBid:       input.CurrentBid,
		UserType:         userType,
		UserID:           input.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error creating campaign")
	}
	return campaign, nil
}

// GetCampaign возвращает кампанию по ID.
func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "Error fetching campaign")
	}
	return campaign, nil
}

// ListCampaigns возвращает все кампании.
func (s *CampaignService) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching campaigns")
	}
	return campaigns, nil
}

// ListCampaignsByStatus возвращает кампании в заданном статусе.
func (s *CampaignService) ListCampaignsByStatus(ctx context.Context, status string) ([]models.Campaign, error) {
	if err := validation.ValidateCampaignStatus(status); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	campaigns, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching campaigns by status")
	}
	return campaigns, nil
}

// UpdateCampaign обновляет непустые поля кампании.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id string, input UpdateCampaignInput) (*models.Campaign, error) {
	if input.Status != "" {
		if err := validation.ValidateCampaignStatus(input.Status); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}
	if input.Title != "" {
		if err := validation.ValidateCampaignTitle(input.Title); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}

	campaign, err := s.repo.Update(ctx, id, func(c *models.Campaign) error {
		if input.Title != "" {
			c.Title = strings.TrimSpace(input.Title)
		}
		if input.Crop != "" {
			c.Crop = input.Crop
		}
		if input.CropType != "" {
			c.CropType = input.CropType
		}
		if input.Location != "" {
			c.Location = input.Location
		}
		if input.Duration != "" {
			c.Duration = input.Duration
		}
		if input.EstimatedYield != "" {
			c.EstimatedYield = input.EstimatedYield
		}
		if input.MinimumQuotation != "" {
			c.MinimumQuotation = input.MinimumQuotation
		}
		if input.Notes != "" {
			c.Notes = input.Notes
		}
		if input.CurrentBid != "" {
			c.CurrentBid = input.CurrentBid
		}
		if input.Status != "" {
			c.Status = input.Status
		}
		c.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err, "Error updating campaign")
	}
	return campaign, nil
}

// DeleteCampaign удаляет кампанию.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err, "Error deleting campaign")
	}
	return nil
}

func (s *CampaignService) mapErr(err error, message string) error {
	if errors.Is(err, repository.ErrCampaignNotFound) {
		return apperror.ErrCampaignNotFound
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}
