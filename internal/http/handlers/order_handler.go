package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/service"
)

// OrderHandler обслуживает реестр заказов на снабжение.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler создаёт хэндлер.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List обрабатывает GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, orders)
}

// ListByStatus обрабатывает GET /api/orders/status/:status.
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	orders, err := h.orders.ListOrdersByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, orders)
}

// Get обрабатывает GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

// Create обрабатывает POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, order)
}

// Update обрабатывает PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	var req service.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orders.UpdateOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, order)
}

// Delete обрабатывает DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"message": "Order deleted successfully"})
}
