package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with existing data")
)

// OrderRepository stages order writes on the owning unit of work.
// Reads observe committed state only.
type OrderRepository interface {
	Add(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Order, error)
}

// DishRepository stages catalog writes on the owning unit of work.
type DishRepository interface {
	Add(ctx context.Context, dish *domain.Dish) error
	Get(ctx context.Context, id string) (*domain.Dish, error)
	GetByArticle(ctx context.Context, article string) (*domain.Dish, error)
	Update(ctx context.Context, dish *domain.Dish) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Dish, error)
}
