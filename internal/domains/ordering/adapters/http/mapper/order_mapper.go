package mapper

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

// OrderLine is one requested line of a submission.
type OrderLine struct {
	DishID    string          `json:"dishId"`
	DishName  string          `json:"dishName,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// SubmitOrder is the inbound payload of POST /orders. Either Items or the
// "CODE:QTY;CODE:QTY" shorthand in Order is set; Items wins when both are.
type SubmitOrder struct {
	Items []OrderLine `json:"items,omitempty"`
	Order string      `json:"order,omitempty"`
}

// UsesShorthand reports whether the lines must be resolved against the menu.
func (p SubmitOrder) UsesShorthand() bool {
	return len(p.Items) == 0 && strings.TrimSpace(p.Order) != ""
}

// ToSubmitOrderInput maps explicit lines into the application command.
func ToSubmitOrderInput(p SubmitOrder) types.SubmitOrderInput {
	items := make([]types.OrderItemInput, 0, len(p.Items))
	for _, line := range p.Items {
		items = append(items, types.OrderItemInput{
			DishID:    line.DishID,
			DishName:  line.DishName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return types.SubmitOrderInput{Items: items}
}

// SubmitOrderResult is returned by POST /orders.
type SubmitOrderResult struct {
	Success      bool      `json:"success"`
	OrderID      uuid.UUID `json:"orderId"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

func FromSubmitOrderResult(r types.SubmitOrderResult) SubmitOrderResult {
	return SubmitOrderResult{Success: r.Success, OrderID: r.OrderID, ErrorMessage: r.ErrorMessage}
}

type OrderItem struct {
	DishID     string          `json:"dishId"`
	DishName   string          `json:"dishName"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	CreatedDate time.Time       `json:"createdDate"`
	Status      string          `json:"status"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// FromOrderProjection maps a projection to its HTTP representation.
func FromOrderProjection(p *types.OrderProjection) Order {
	if p == nil {
		return Order{Items: []OrderItem{}}
	}
	items := make([]OrderItem, 0, len(p.Items))
	for _, line := range p.Items {
		items = append(items, OrderItem{
			DishID:     line.DishID,
			DishName:   line.DishName,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice,
		})
	}
	return Order{
		ID:          p.ID,
		CreatedDate: p.CreatedDate,
		Status:      string(p.Status),
		Items:       items,
		TotalAmount: p.TotalAmount,
	}
}

func FromOrderProjectionList(list []*types.OrderProjection) []Order {
	out := make([]Order, 0, len(list))
	for _, p := range list {
		out = append(out, FromOrderProjection(p))
	}
	return out
}

// Dish is the HTTP representation of a menu entry.
type Dish struct {
	ID         string          `json:"id"`
	Article    string          `json:"article"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	IsWeighted bool            `json:"isWeighted"`
	FullPath   string          `json:"fullPath"`
	Barcodes   []string        `json:"barcodes"`
}

func FromDishes(dishes []*domain.Dish) []Dish {
	out := make([]Dish, 0, len(dishes))
	for _, d := range dishes {
		if d == nil {
			continue
		}
		barcodes := d.Barcodes()
		if barcodes == nil {
			barcodes = []string{}
		}
		out = append(out, Dish{
			ID:         d.ID,
			Article:    d.Article,
			Name:       d.Name,
			Price:      d.Price,
			IsWeighted: d.IsWeighted,
			FullPath:   d.FullPath,
			Barcodes:   barcodes,
		})
	}
	return out
}

type MenuSyncResult struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func FromMenuSyncResult(r types.MenuSyncResult) MenuSyncResult {
	return MenuSyncResult{Fetched: r.Fetched, Created: r.Created, Updated: r.Updated}
}
