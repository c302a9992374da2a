package models

import "time"

// Order — заказ на снабжение (семена, удобрения, техника).
// Независимая сущность без связей с торгами.
type Order struct {
	ID           string    `json:"id"`
	Product      string    `json:"product"`
	Quantity     string    `json:"quantity"`
	Supplier     string    `json:"supplier"`
	OrderDate    string    `json:"orderDate,omitempty"`
	DeliveryDate string    `json:"deliveryDate,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
