package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

var (
	_ ports.UnitOfWorkFactory = (*Store)(nil)
	_ ports.UnitOfWork        = (*UnitOfWork)(nil)
)

// Store opens units of work over a PostgreSQL database. Caller manages DB lifecycle.
// The schema comes from platform/migrations.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) New() ports.UnitOfWork {
	uow := &UnitOfWork{db: s.db}
	uow.orders = &orderRepository{uow: uow}
	uow.dishes = &dishRepository{uow: uow}
	return uow
}

type stagedOp func(tx *gorm.DB) error

// UnitOfWork buffers writes and runs them in a single transaction on Commit.
// Reads go straight to the database and see committed state only.
type UnitOfWork struct {
	db     *gorm.DB
	staged []stagedOp
	orders *orderRepository
	dishes *dishRepository
}

func (u *UnitOfWork) Orders() ports.OrderRepository { return u.orders }
func (u *UnitOfWork) Dishes() ports.DishRepository  { return u.dishes }

func (u *UnitOfWork) Commit(ctx context.Context) error {
	staged := u.staged
	u.staged = nil
	if err := u.ensureDB(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(staged) == 0 {
		return nil
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, op := range staged {
			if err := op(tx); err != nil {
				return fmt.Errorf("commit write %d: %w", i+1, translate(err))
			}
		}
		return nil
	})
}

func (u *UnitOfWork) stage(op stagedOp) {
	u.staged = append(u.staged, op)
}

func (u *UnitOfWork) reader(ctx context.Context) (*gorm.DB, error) {
	if err := u.ensureDB(); err != nil {
		return nil, err
	}
	return u.db.WithContext(ctx), nil
}

func (u *UnitOfWork) ensureDB() error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ports.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ports.ErrConflict, err)
	default:
		return err
	}
}
