package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/validation"
)

// ContractRepository описывает взаимодействие сервиса с контрактами.
type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	Update(ctx context.Context, id string, fn func(*models.Contract) error) (*models.Contract, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Contract, error)
	ListByStatus(ctx context.Context, status string) ([]models.Contract, error)
}

// CreateContractInput данные контракта, заведённого через реестр.
// Контракты из принятых ставок порождает движок торгов, не реестр.
type CreateContractInput struct {
	Title              string
	Crop               string
	CropType           string
	Location           string
	Duration           string
	EstimatedYield     string
	MinimumQuotation   string
	CurrentBid         string
	TotalBids          int
	Status             string
	FarmerID           string
	FarmerName         string
	BuyerID            string
	BuyerName          string
	CurrentStage       string
	AgreedPrice        string
	OriginalCampaignID string
	DeliveryTerms      string
	QualityGrade       string
	ContractNotes      string
}

// UpdateContractInput изменяемые поля контракта. Пустые поля сохраняют
// прежние значения.
type UpdateContractInput struct {
	Title         string
	Status        string
	CurrentStage  string
	AgreedPrice   string
	DeliveryTerms string
	QualityGrade  string
	ContractNotes string
}

// ContractService — реестр контрактов.
type ContractService struct {
	repo ContractRepository
}

func NewContractService(repo ContractRepository) *ContractService {
	return &ContractService{repo: repo}
}

// CreateContract заводит контракт вручную. Статус по умолчанию upcoming.
func (s *ContractService) CreateContract(ctx context.Context, input CreateContractInput) (*models.Contract, error) {
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
		{"minimumQuotation", input.MinimumQuotation},
		{"currentBid", input.CurrentBid},
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
	if err := validation.ValidateContractStatus(status); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	now := time.Now()
	contract := &models.Contract{
		ID:                 uuid.NewString(),
		Title:              input.Title,
		Crop:               input.Crop,
		CropType:           input.CropType,
		Location:           input.Location,
		Duration:           input.Duration,
		EstimatedYield:     input.EstimatedYield,
		MinimumQuotation:   input.MinimumQuotation,
		CurrentBid:         input.CurrentBid,
		TotalBids:          input.TotalBids,
		Status:             status,
		FarmerID:           input.FarmerID,
		FarmerName:         input.FarmerName,
		BuyerID:            input.BuyerID,
		BuyerName:          input.BuyerName,
		CurrentStage:       input.CurrentStage,
		AgreedPrice:        input.AgreedPrice,
		OriginalCampaignID: input.OriginalCampaignID,
		DeliveryTerms:      input.DeliveryTerms,
		QualityGrade:       input.QualityGrade,
		ContractNotes:      input.ContractNotes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error creating contract")
	}
	return contract, nil
}

// GetContract возвращает контракт по ID.
func (s *ContractService) GetContract(ctx context.Context, id string) (*models.Contract, error) {
	contract, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "Error fetching contract")
	}
	return contract, nil
}

// ListContracts возвращает все контракты.
func (s *ContractService) ListContracts(ctx context.Context) ([]models.Contract, error) {
	contracts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching contracts")
	}
	return contracts, nil
}

// ListContractsByStatus возвращает контракты в заданном статусе.
func (s *ContractService) ListContractsByStatus(ctx context.Context, status string) ([]models.Contract, error) {
	if err := validation.ValidateContractStatus(status); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	contracts, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching contracts by status")
	}
	return contracts, nil
}

// UpdateContract обновляет непустые поля контракта.
func (s *ContractService) UpdateContract(ctx context.Context, id string, input UpdateContractInput) (*models.Contract, error) {
	if input.Status != "" {
		if err := validation.ValidateContractStatus(input.Status); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}

	contract, err := s.repo.Update(ctx, id, func(c *models.Contract) error {
		if input.Title != "" {
			c.Title = input.Title
		}
		if input.Status != "" {
			c.Status = input.Status
		}
		if input.CurrentStage != "" {
			c.CurrentStage = input.CurrentStage
		}
		if input.AgreedPrice != "" {
			c.AgreedPrice = input.AgreedPrice
		}
		if input.DeliveryTerms != "" {
			c.DeliveryTerms = input.DeliveryTerms
		}
		if input.QualityGrade != "" {
			c.QualityGrade = input.QualityGrade
		}
		if input.ContractNotes != "" {
			c.ContractNotes = input.ContractNotes
		}
		c.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err, "Error updating contract")
	}
	return contract, nil
}

// DeleteContract удаляет контракт.
func (s *ContractService) DeleteContract(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err, "Error deleting contract")
	}
	return nil
}

func (s *ContractService) mapErr(err error, message string) error {
	if errors.Is(err, repository.ErrContractNotFound) {
		return apperror.ErrContractNotFound
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}
