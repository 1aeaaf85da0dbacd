package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

var (
	_ ports.UnitOfWorkFactory = (*Store)(nil)
	_ ports.UnitOfWork        = (*UnitOfWork)(nil)
)

// Store is an in-memory persistence adapter. Aggregates are copied on the
// way in and out so callers never share state with the store.
type Store struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
	dishes map[string]*domain.Dish
}

func NewStore() *Store {
	return &Store{
		orders: map[uuid.UUID]*domain.Order{},
		dishes: map[string]*domain.Dish{},
	}
}

// New opens a unit of work over the store.
func (s *Store) New() ports.UnitOfWork {
	uow := &UnitOfWork{store: s}
	uow.orders = &orderRepository{uow: uow}
	uow.dishes = &dishRepository{uow: uow}
	return uow
}

type tables struct {
	orders map[uuid.UUID]*domain.Order
	dishes map[string]*domain.Dish
}

type stagedOp func(t *tables) error

// UnitOfWork buffers writes until Commit.
type UnitOfWork struct {
	store  *Store
	staged []stagedOp
	orders *orderRepository
	dishes *dishRepository
}

func (u *UnitOfWork) Orders() ports.OrderRepository { return u.orders }
func (u *UnitOfWork) Dishes() ports.DishRepository  { return u.dishes }

// Commit applies the staged writes against a copy of the tables and swaps it
// in only when every write succeeded.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	staged := u.staged
	u.staged = nil
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(staged) == 0 {
		return nil
	}

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	working := tables{
		orders: make(map[uuid.UUID]*domain.Order, len(s.orders)),
		dishes: make(map[string]*domain.Dish, len(s.dishes)),
	}
	for id, order := range s.orders {
		working.orders[id] = order
	}
	for id, dish := range s.dishes {
		working.dishes[id] = dish
	}
	for i, op := range staged {
		if err := op(&working); err != nil {
			return fmt.Errorf("commit write %d: %w", i+1, err)
		}
	}
	s.orders = working.orders
	s.dishes = working.dishes
	return nil
}

func (u *UnitOfWork) stage(op stagedOp) {
	u.staged = append(u.staged, op)
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone, _ := domain.Rehydrate(order.ID(), order.CreatedDate(), order.Status(), order.Items())
	return clone
}
