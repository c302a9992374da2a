package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
)

const contractCollection = "contracts"

// ContractRepository отвечает за доступ к коллекции contracts.
type ContractRepository struct {
	store docstore.Store
}

// NewContractRepository создаёт репозиторий контрактов.
func NewContractRepository(store docstore.Store) *ContractRepository {
	return &ContractRepository{store: store}
}

// Create сохраняет новый контракт.
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	if err := r.store.Add(ctx, contractCollection, contract.ID, contract); err != nil {
		return fmt.Errorf("contract repository: create: %w", err)
	}
	return nil
}

// GetByID возвращает контракт по идентификатору.
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	var contract models.Contract
	err := r.store.Get(ctx, contractCollection, id, &contract)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contract repository: get by id: %w", err)
	}
	return &contract, nil
}

// Update атомарно изменяет контракт через fn.
func (r *ContractRepository) Update(ctx context.Context, id string, fn func(*models.Contract) error) (*models.Contract, error) {
	contract, err := updateDoc(ctx, r.store, contractCollection, id, fn)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contract repository: update: %w", err)
	}
	return contract, nil
}

// Delete удаляет контракт.
func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, contractCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrContractNotFound
	}
	if err != nil {
		return fmt.Errorf("contract repository: delete: %w", err)
	}
	return nil
}

// List возвращает все контракты.
func (r *ContractRepository) List(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	if err := r.store.All(ctx, contractCollection, &contracts); err != nil {
		return nil, fmt.Errorf("contract repository: list: %w", err)
	}
	return contracts, nil
}

// ListByStatus возвращает контракты с заданным статусом.
func (r *ContractRepository) ListByStatus(ctx context.Context, status string) ([]models.Contract, error) {
	var contracts []models.Contract
	filters := []docstore.Filter{{Field: "status", Value: status}}
	if err := r.store.Query(ctx, contractCollection, filters, &contracts); err != nil {
		return nil, fmt.Errorf("contract repository: list by status: %w", err)
	}
	return contracts, nil
}

// Count возвращает общее число контрактов.
func (r *ContractRepository) Count(ctx context.Context) (int, error) {
	count, err := r.store.Count(ctx, contractCollection)
	if err != nil {
		return 0, fmt.Errorf("contract repository: count: %w", err)
	}
	return count, nil
}
