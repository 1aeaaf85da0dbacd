package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the dispatch lifecycle of an order.
type Status string

const (
	StatusPending Status = "Pending"
	StatusSent    Status = "Sent"
	StatusFailed  Status = "Failed"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid order state")
	ErrInvalidStatus   = errors.New("order status is invalid")
)

// ParseStatus maps a stored status name back onto the enum.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusSent, StatusFailed:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusFailed
}

// OrderItem is a single order line. Lines are identified by DishID when merging.
type OrderItem struct {
	DishID    string
	DishName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// TotalPrice returns quantity multiplied by unit price.
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Order is the aggregate built and dispatched by the submission flow.
// An Order must not be shared across goroutines.
type Order struct {
	id          uuid.UUID
	createdDate time.Time
	status      Status
	items       []OrderItem
}

// NewOrder starts a pending order with no lines.
func NewOrder(id uuid.UUID, createdDate time.Time) *Order {
	return &Order{
		id:          id,
		createdDate: createdDate.UTC(),
		status:      StatusPending,
	}
}

// Rehydrate rebuilds an order from its stored representation.
func Rehydrate(id uuid.UUID, createdDate time.Time, status Status, items []OrderItem) (*Order, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	o := &Order{
		id:          id,
		createdDate: createdDate.UTC(),
		status:      status,
		items:       make([]OrderItem, 0, len(items)),
	}
	o.items = append(o.items, items...)
	return o, nil
}

func (o *Order) ID() uuid.UUID          { return o.id }
func (o *Order) CreatedDate() time.Time { return o.createdDate }
func (o *Order) Status() Status         { return o.status }

// Items returns a copy of the order lines in insertion order.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// TotalAmount sums the total price of every line.
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// AddItem appends a line or, when the dish is already ordered, adds the
// quantity to the existing line. The existing line keeps its price.
func (o *Order) AddItem(dishID string, quantity, unitPrice decimal.Decimal, dishName string) error {
	if strings.TrimSpace(dishID) == "" {
		return fmt.Errorf("%w: dish id is required", ErrInvalidArgument)
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidArgument)
	}
	if unitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", ErrInvalidArgument)
	}
	for i := range o.items {
		if o.items[i].DishID == dishID {
			o.items[i].Quantity = o.items[i].Quantity.Add(quantity)
			return nil
		}
	}
	o.items = append(o.items, OrderItem{
		DishID:    dishID,
		DishName:  dishName,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	return nil
}

// RemoveItem drops the line for dishID. Unknown dishes are ignored.
func (o *Order) RemoveItem(dishID string) {
	for i := range o.items {
		if o.items[i].DishID == dishID {
			o.items = append(o.items[:i], o.items[i+1:]...)
			return
		}
	}
}

// MarkAsSent records a successful dispatch. Only pending orders may be sent.
func (o *Order) MarkAsSent() (OrderSent, error) {
	if o.status != StatusPending {
		return OrderSent{}, fmt.Errorf("%w: cannot mark order as sent, current status %s", ErrInvalidState, o.status)
	}
	o.status = StatusSent
	return OrderSent{
		BaseEvent: BaseEvent{Timestamp: time.Now().UTC()},
		OrderID:   o.id,
	}, nil
}

// MarkAsFailed records a failed dispatch. The reason travels with the event
// only. A failed order stays failed; a sent order cannot fail.
func (o *Order) MarkAsFailed(reason string) (OrderFailed, error) {
	if o.status == StatusSent {
		return OrderFailed{}, fmt.Errorf("%w: cannot mark order as failed, current status %s", ErrInvalidState, o.status)
	}
	o.status = StatusFailed
	return OrderFailed{
		BaseEvent: BaseEvent{Timestamp: time.Now().UTC()},
		OrderID:   o.id,
		Reason:    reason,
	}, nil
}
