package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

func newOrder(t *testing.T) *domain.Order {
	t.Helper()
	order := domain.NewOrder(uuid.New(), time.Now())
	require.NoError(t, order.AddItem("HOT001", decimal.NewFromInt(2), decimal.RequireFromString("280.50"), "Борщ с пампушками"))
	return order
}

func newDish(t *testing.T, id, article string) *domain.Dish {
	t.Helper()
	dish, err := domain.NewDish(id, article, "dish "+id, decimal.NewFromInt(100), false, "Категория")
	require.NoError(t, err)
	return dish
}

func TestOrders_WritesAreStagedUntilCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := store.New()
	order := newOrder(t)

	require.NoError(t, uow.Orders().Add(ctx, order))
	_, err := uow.Orders().Get(ctx, order.ID())
	require.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, uow.Commit(ctx))
	stored, err := store.New().Orders().Get(ctx, order.ID())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, stored.Status())
	require.True(t, stored.TotalAmount().Equal(decimal.RequireFromString("561")))
}

func TestOrders_ReturnedAggregatesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := store.New()
	order := newOrder(t)
	require.NoError(t, uow.Orders().Add(ctx, order))
	require.NoError(t, uow.Commit(ctx))

	_, err := order.MarkAsSent()
	require.NoError(t, err)

	stored, err := uow.Orders().Get(ctx, order.ID())
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, stored.Status())

	require.NoError(t, uow.Orders().Update(ctx, order))
	require.NoError(t, uow.Commit(ctx))
	stored, err = uow.Orders().Get(ctx, order.ID())
	require.NoError(t, err)
	require.Equal(t, domain.StatusSent, stored.Status())
}

func TestCommit_IsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	first := newOrder(t)
	uow := store.New()
	require.NoError(t, uow.Orders().Add(ctx, first))
	require.NoError(t, uow.Commit(ctx))

	second := newOrder(t)
	require.NoError(t, uow.Orders().Add(ctx, second))
	require.NoError(t, uow.Orders().Add(ctx, first))
	err := uow.Commit(ctx)
	require.ErrorIs(t, err, ports.ErrConflict)

	_, err = uow.Orders().Get(ctx, second.ID())
	require.ErrorIs(t, err, ports.ErrNotFound)

	// staged writes are discarded after a failed commit
	require.NoError(t, uow.Commit(ctx))
}

func TestOrders_UpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()

	require.NoError(t, uow.Orders().Update(ctx, newOrder(t)))
	require.ErrorIs(t, uow.Commit(ctx), ports.ErrNotFound)

	require.NoError(t, uow.Orders().Delete(ctx, uuid.New()))
	require.ErrorIs(t, uow.Commit(ctx), ports.ErrNotFound)
}

func TestOrders_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	a, b := newOrder(t), newOrder(t)
	require.NoError(t, uow.Orders().Add(ctx, a))
	require.NoError(t, uow.Orders().Add(ctx, b))
	require.NoError(t, uow.Commit(ctx))

	list, err := uow.Orders().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, uow.Orders().Delete(ctx, a.ID()))
	require.NoError(t, uow.Commit(ctx))
	list, err = uow.Orders().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, b.ID(), list[0].ID())
}

func TestCommit_HonoursCancellation(t *testing.T) {
	uow := NewStore().New()
	order := newOrder(t)
	require.NoError(t, uow.Orders().Add(context.Background(), order))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, uow.Commit(ctx), context.Canceled)

	_, err := uow.Orders().Get(context.Background(), order.ID())
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDishes_ArticleIsUnique(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()

	require.NoError(t, uow.Dishes().Add(ctx, newDish(t, "1", "HOT001")))
	require.NoError(t, uow.Commit(ctx))

	require.NoError(t, uow.Dishes().Add(ctx, newDish(t, "2", "HOT001")))
	require.ErrorIs(t, uow.Commit(ctx), ports.ErrConflict)

	require.NoError(t, uow.Dishes().Add(ctx, newDish(t, "1", "HOT999")))
	require.ErrorIs(t, uow.Commit(ctx), ports.ErrConflict)

	require.NoError(t, uow.Dishes().Add(ctx, newDish(t, "2", "HOT002")))
	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, uow.Dishes().Update(ctx, newDish(t, "2", "HOT001")))
	require.ErrorIs(t, uow.Commit(ctx), ports.ErrConflict)
}

func TestDishes_CRUD(t *testing.T) {
	ctx := context.Background()
	uow := NewStore().New()
	dish := newDish(t, "1", "HOT001")
	require.NoError(t, dish.AddBarcode("4600000000011"))
	require.NoError(t, uow.Dishes().Add(ctx, dish))
	require.NoError(t, uow.Commit(ctx))

	byArticle, err := uow.Dishes().GetByArticle(ctx, "HOT001")
	require.NoError(t, err)
	require.Equal(t, "1", byArticle.ID)
	require.Equal(t, []string{"4600000000011"}, byArticle.Barcodes())

	require.NoError(t, byArticle.UpdatePrice(decimal.NewFromInt(300)))
	require.NoError(t, uow.Dishes().Update(ctx, byArticle))
	require.NoError(t, uow.Commit(ctx))

	stored, err := uow.Dishes().Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, stored.Price.Equal(decimal.NewFromInt(300)))

	require.NoError(t, uow.Dishes().Delete(ctx, "1"))
	require.NoError(t, uow.Commit(ctx))
	_, err = uow.Dishes().Get(ctx, "1")
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = uow.Dishes().GetByArticle(ctx, "HOT001")
	require.ErrorIs(t, err, ports.ErrNotFound)

	list, err := uow.Dishes().List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
