package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

// OrderLineProjection is a read-only copy of an order line.
type OrderLineProjection struct {
	DishID     string          `json:"dishId"`
	DishName   string          `json:"dishName"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// OrderProjection flattens an order aggregate for adapters and workflow payloads.
type OrderProjection struct {
	ID          uuid.UUID             `json:"id"`
	CreatedDate time.Time             `json:"createdDate"`
	Status      domain.Status         `json:"status"`
	Items       []OrderLineProjection `json:"items"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
}

// NewOrderProjection copies the aggregate state into a projection.
func NewOrderProjection(order *domain.Order) *OrderProjection {
	if order == nil {
		return nil
	}
	items := order.Items()
	lines := make([]OrderLineProjection, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLineProjection{
			DishID:     item.DishID,
			DishName:   item.DishName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice(),
		})
	}
	return &OrderProjection{
		ID:          order.ID(),
		CreatedDate: order.CreatedDate(),
		Status:      order.Status(),
		Items:       lines,
		TotalAmount: order.TotalAmount(),
	}
}
