package ports

import "context"

// UnitOfWork groups staged repository writes and applies them atomically on Commit.
// A unit of work serves one logical request and is not safe for concurrent use.
type UnitOfWork interface {
	Orders() OrderRepository
	Dishes() DishRepository
	// Commit applies every staged write or none of them. The staged set is
	// cleared either way so the unit of work can be reused for the next step.
	Commit(ctx context.Context) error
}

// UnitOfWorkFactory opens a fresh unit of work per request.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}
