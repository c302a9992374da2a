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

// OrderRepository описывает хранилище заказов на поставки.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Order, error)
	ListByStatus(ctx context.Context, status string) ([]models.Order, error)
}

// CreateOrderInput содержит поля нового заказа.
type CreateOrderInput struct {
	Product      string `json:"product"`
	Quantity     string `json:"quantity"`
	Supplier     string `json:"supplier"`
	OrderDate    string `json:"orderDate"`
	DeliveryDate string `json:"deliveryDate"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
}

// UpdateOrderInput содержит частичное обновление заказа. Пустые поля не трогаем.
type UpdateOrderInput struct {
	Product      string `json:"product"`
	Quantity     string `json:"quantity"`
	Supplier     string `json:"supplier"`
	OrderDate    string `json:"orderDate"`
	DeliveryDate string `json:"deliveryDate"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
}

// OrderService управляет заказами на закупку ресурсов.
type OrderService struct {
	orders OrderRepository
}

func NewOrderService(orders OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// CreateOrder проверяет обязательные поля и сохраняет заказ.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	required := []struct {
		field string
		value string
	}{
		{"product", in.Product},
		{"quantity", in.Quantity},
		{"supplier", in.Supplier},
		{"orderDate", in.OrderDate},
		{"deliveryDate", in.DeliveryDate},
		{"amount", in.Amount},
	}
	for _, r := range required {
		if err := validation.ValidateNonEmpty(r.field, r.value); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}

	status := in.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	if err := validation.ValidateOrderStatus(status); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:           uuid.NewString(),
		Product:      in.Product,
		Quantity:     in.Quantity,
		Supplier:     in.Supplier,
		OrderDate:    in.OrderDate,
		DeliveryDate: in.DeliveryDate,
		Amount:       in.Amount,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error creating order")
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "Error fetching order")
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching orders")
	}
	return orders, nil
}

func (s *OrderService) ListOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	if err := validation.ValidateOrderStatus(status); err != nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
	}
	orders, err := s.orders.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Error fetching orders by status")
	}
	return orders, nil
}

// UpdateOrder накладывает непустые поля запроса на сохранённый заказ.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, in UpdateOrderInput) (*models.Order, error) {
	if in.Status != "" {
		if err := validation.ValidateOrderStatus(in.Status); err != nil {
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		}
	}

	order, err := s.orders.Update(ctx, id, func(o *models.Order) error {
		if in.Product != "" {
			o.Product = in.Product
		}
		if in.Quantity != "" {
			o.Quantity = in.Quantity
		}
		if in.Supplier != "" {
			o.Supplier = in.Supplier
		}
		if in.OrderDate != "" {
			o.OrderDate = in.OrderDate
		}
		if in.DeliveryDate != "" {
			o.DeliveryDate = in.DeliveryDate
		}
		if in.Amount != "" {
			o.Amount = in.Amount
		}
		if in.Status != "" {
			o.Status = in.Status
		}
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err, "Error updating order")
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return s.mapErr(err, "Error deleting order")
	}
	return nil
}

func (s *OrderService) mapErr(err error, msg string) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return apperror.ErrOrderNotFound
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, msg)
}
