// Package emulator serves the order-management backend contract over the
// JSON envelope protocol and gRPC, backed by the fixed catalog and a
// configurable acceptance policy. It exists for local runs and contract tests.
package emulator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/stub"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

// Line is one requested order line, independent of the wire format.
type Line struct {
	DishID   string
	Quantity decimal.Decimal
}

// Backend answers menu and order commands.
type Backend struct {
	catalog []*domain.Dish
	byID    map[string]*domain.Dish
	policy  stub.Policy
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Backend)

func WithPolicy(p stub.Policy) Option {
	return func(b *Backend) {
		if p != nil {
			b.policy = p
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// NewBackend serves the stub catalog and accepts every order unless a policy is set.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		catalog: stub.Catalog(),
		policy:  stub.AcceptAll(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b.byID = make(map[string]*domain.Dish, len(b.catalog))
	for _, dish := range b.catalog {
		b.byID[dish.ID] = dish
	}
	return b
}

// Menu returns the catalog. Prices are always included.
func (b *Backend) Menu(ctx context.Context, withPrice bool) []*domain.Dish {
	b.logger.InfoContext(ctx, "emulator serving menu", slog.Bool("withPrice", withPrice), slog.Int("dishes", len(b.catalog)))
	return b.catalog
}

// Order rebuilds the order against the catalog and applies the policy.
// Malformed orders are rejected through the result, never through an error.
func (b *Backend) Order(ctx context.Context, orderID string, lines []Line) ports.DispatchResult {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return b.reject(ctx, orderID, fmt.Sprintf("Invalid order id: %s", orderID))
	}
	if len(lines) == 0 {
		return b.reject(ctx, orderID, "Order has no items")
	}
	order := domain.NewOrder(id, b.now())
	for _, line := range lines {
		dish, ok := b.byID[line.DishID]
		if !ok {
			return b.reject(ctx, orderID, fmt.Sprintf("Menu item not found: %s", line.DishID))
		}
		if err := order.AddItem(dish.ID, line.Quantity, dish.Price, dish.Name); err != nil {
			return b.reject(ctx, orderID, fmt.Sprintf("Invalid quantity for %s", line.DishID))
		}
	}
	result := b.policy(order)
	if !result.Accepted {
		return b.reject(ctx, orderID, result.ErrorMessage)
	}
	b.logger.InfoContext(ctx, "emulator accepted order", slog.String("order.id", orderID), slog.Int("items", len(lines)))
	return result
}

func (b *Backend) reject(ctx context.Context, orderID, message string) ports.DispatchResult {
	b.logger.WarnContext(ctx, "emulator rejected order", slog.String("order.id", orderID), slog.String("reason", message))
	return ports.DispatchResult{ErrorMessage: message}
}
