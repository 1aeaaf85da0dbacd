package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

var _ ports.OrderRepository = (*orderRepository)(nil)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	snapshot := cloneOrder(order)
	r.uow.stage(func(t *tables) error {
		if _, exists := t.orders[snapshot.ID()]; exists {
			return ports.ErrConflict
		}
		t.orders[snapshot.ID()] = snapshot
		return nil
	})
	return nil
}

func (r *orderRepository) Get(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) Update(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	snapshot := cloneOrder(order)
	r.uow.stage(func(t *tables) error {
		if _, exists := t.orders[snapshot.ID()]; !exists {
			return ports.ErrNotFound
		}
		t.orders[snapshot.ID()] = snapshot
		return nil
	})
	return nil
}

func (r *orderRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.uow.stage(func(t *tables) error {
		if _, exists := t.orders[id]; !exists {
			return ports.ErrNotFound
		}
		delete(t.orders, id)
		return nil
	})
	return nil
}

func (r *orderRepository) List(_ context.Context) ([]*domain.Order, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		list = append(list, cloneOrder(order))
	}
	return list, nil
}
