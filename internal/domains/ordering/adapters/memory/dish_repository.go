package memory

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

var _ ports.DishRepository = (*dishRepository)(nil)

type dishRepository struct {
	uow *UnitOfWork
}

func (r *dishRepository) Add(_ context.Context, dish *domain.Dish) error {
	if dish == nil {
		return errors.New("dish is nil")
	}
	snapshot := dish.Clone()
	r.uow.stage(func(t *tables) error {
		if _, exists := t.dishes[snapshot.ID]; exists {
			return ports.ErrConflict
		}
		if articleTaken(t, snapshot) {
			return ports.ErrConflict
		}
		t.dishes[snapshot.ID] = snapshot
		return nil
	})
	return nil
}

func (r *dishRepository) Get(_ context.Context, id string) (*domain.Dish, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	dish, ok := s.dishes[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return dish.Clone(), nil
}

func (r *dishRepository) GetByArticle(_ context.Context, article string) (*domain.Dish, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dish := range s.dishes {
		if dish.Article == article {
			return dish.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *dishRepository) Update(_ context.Context, dish *domain.Dish) error {
	if dish == nil {
		return errors.New("dish is nil")
	}
	snapshot := dish.Clone()
	r.uow.stage(func(t *tables) error {
		if _, exists := t.dishes[snapshot.ID]; !exists {
			return ports.ErrNotFound
		}
		if articleTaken(t, snapshot) {
			return ports.ErrConflict
		}
		t.dishes[snapshot.ID] = snapshot
		return nil
	})
	return nil
}

func (r *dishRepository) Delete(_ context.Context, id string) error {
	r.uow.stage(func(t *tables) error {
		if _, exists := t.dishes[id]; !exists {
			return ports.ErrNotFound
		}
		delete(t.dishes, id)
		return nil
	})
	return nil
}

func (r *dishRepository) List(_ context.Context) ([]*domain.Dish, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Dish, 0, len(s.dishes))
	for _, dish := range s.dishes {
		list = append(list, dish.Clone())
	}
	return list, nil
}

func articleTaken(t *tables, candidate *domain.Dish) bool {
	for id, dish := range t.dishes {
		if id != candidate.ID && dish.Article == candidate.Article {
			return true
		}
	}
	return false
}
