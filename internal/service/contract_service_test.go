package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
	"github.com/agrimitra/backend/internal/pkg/apperror"
	"github.com/agrimitra/backend/internal/repository"
)

func newContractService() *ContractService {
	store := docstore.NewMemoryStore()
	return NewContractService(repository.NewContractRepository(store))
}

func validContractInput() CreateContractInput {
	return CreateContractInput{
		Title:            "📄 Contract: Organic Wheat Harvest",
		Crop:             "Wheat",
		CropType:         "Rabi",
		Location:         "Karnataka",
		Duration:         "4 months",
		EstimatedYield:   "80 quintals",
		MinimumQuotation: "₹2000 per quintal",
		CurrentBid:       "₹2200 per quintal",
		FarmerName:       "Ramesh",
		BuyerName:        "AgroCorp",
		AgreedPrice:      "₹2200 per quintal",
		DeliveryTerms:    "Standard delivery terms",
		QualityGrade:     "Grade A",
	}
}

func TestContractService_CreateDefaults(t *testing.T) {
	service := newContractService()
	ctx := context.Background()

	contract, err := service.CreateContract(ctx, validContractInput())
	require.NoError(t, err)
	assert.NotEmpty(t, contract.ID)
	assert.Equal(t, models.CampaignStatusUpcoming, contract.Status)
	assert.False(t, contract.CreatedAt.IsZero())

	fetched, err := service.GetContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.Title, fetched.Title)
}

func TestContractService_CreateValidation(t *testing.T) {
	service := newContractService()
	ctx := context.Background()

	input := validContractInput()
	input.Title = ""
	_, err := service.CreateContract(ctx, input)
	assert.Error(t, err)

	input = validContractInput()
	input.CurrentBid = ""
	_, err = service.CreateContract(ctx, input)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "currentBid")

	input = validContractInput()
	input.Status = "cancelled"
	_, err = service.CreateContract(ctx, input)
	assert.Error(t, err)
}

func TestContractService_ListByStatus(t *testing.T) {
	service := newContractService()
	ctx := context.Background()

	completed := validContractInput()
	completed.Status = models.CampaignStatusCompleted
	_, err := service.CreateContract(ctx, completed)
	require.NoError(t, err)
	_, err = service.CreateContract(ctx, validContractInput())
	require.NoError(t, err)

	list, err := service.ListContractsByStatus(ctx, models.CampaignStatusCompleted)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	all, err := service.ListContracts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = service.ListContractsByStatus(ctx, "cancelled")
	assert.Error(t, err)
}

func TestContractService_Update(t *testing.T) {
	service := newContractService()
	ctx := context.Background()

	contract, err := service.CreateContract(ctx, validContractInput())
	require.NoError(t, err)

	updated, err := service.UpdateContract(ctx, contract.ID, UpdateContractInput{
		Status:       models.CampaignStatusActive,
		CurrentStage: "delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, updated.Status)
	assert.Equal(t, "delivery", updated.CurrentStage)
	// Пустые поля запроса не затирают сохранённые значения.
	assert.Equal(t, contract.AgreedPrice, updated.AgreedPrice)

	_, err = service.UpdateContract(ctx, "missing", UpdateContractInput{Status: models.CampaignStatusActive})
	assert.True(t, apperror.IsNotFound(err))
}

func TestContractService_Delete(t *testing.T) {
	service := newContractService()
	ctx := context.Background()

	contract, err := service.CreateContract(ctx, validContractInput())
	require.NoError(t, err)

	require.NoError(t, service.DeleteContract(ctx, contract.ID))
	assert.True(t, apperror.IsNotFound(service.DeleteContract(ctx, contract.ID)))
	_, err = service.GetContract(ctx, contract.ID)
	assert.True(t, apperror.IsNotFound(err))
}
