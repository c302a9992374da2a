package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/models"
)

const orderCollection = "orders"

// OrderRepository отвечает за доступ к коллекции orders.
type OrderRepository struct {
	store docstore.Store
}

// NewOrderRepository создаёт репозиторий заказов на снабжение.
func NewOrderRepository(store docstore.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Create сохраняет новый заказ.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.store.Add(ctx, orderCollection, order.ID, order); err != nil {
		return fmt.Errorf("order repository: create: %w", err)
	}
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.store.Get(ctx, orderCollection, id, &order)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order repository: get by id: %w", err)
	}
	return &order, nil
}

// Update атомарно изменяет заказ через fn.
func (r *OrderRepository) Update(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error) {
	order, err := updateDoc(ctx, r.store, orderCollection, id, fn)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("order repository: update: %w", err)
	}
	return order, nil
}

// Delete удаляет заказ.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, orderCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("order repository: delete: %w", err)
	}
	return nil
}

// List возвращает все заказы.
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.store.All(ctx, orderCollection, &orders); err != nil {
		return nil, fmt.Errorf("order repository: list: %w", err)
	}
	return orders, nil
}

// ListByStatus возвращает заказы с заданным статусом.
func (r *OrderRepository) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	filters := []docstore.Filter{{Field: "status", Value: status}}
	if err := r.store.Query(ctx, orderCollection, filters, &orders); err != nil {
		return nil, fmt.Errorf("order repository: list by status: %w", err)
	}
	return orders, nil
}
