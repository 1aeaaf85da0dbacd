//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
	"github.com/Apurer/go-order-dispatch/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-order-dispatch/internal/platform/postgres"
)

func setupOrderingPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), platformpostgres.Config())
	require.NoError(t, err)

	require.NoError(t, migrations.Run(db))
	// a second run is a no-op
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func pendingOrder(t *testing.T) *domain.Order {
	t.Helper()
	order := domain.NewOrder(uuid.New(), time.Now())
	require.NoError(t, order.AddItem("HOT001", decimal.NewFromInt(2), decimal.RequireFromString("280.50"), "Борщ с пампушками"))
	require.NoError(t, order.AddItem("SAL001", decimal.RequireFromString("0.5"), decimal.NewFromInt(380), "Цезарь с курицей"))
	return order
}

func TestUnitOfWork_OrderLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderingPostgresContainer(t)
	defer cleanup()

	store := NewStore(db)
	uow := store.New()
	ctx := context.Background()
	order := pendingOrder(t)

	require.NoError(t, uow.Orders().Add(ctx, order))
	_, err := uow.Orders().Get(ctx, order.ID())
	assert.ErrorIs(t, err, ports.ErrNotFound)
	require.NoError(t, uow.Commit(ctx))

	fetched, err := store.New().Orders().Get(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status())
	assert.Equal(t, order.Items()[0].DishID, fetched.Items()[0].DishID)
	assert.True(t, fetched.TotalAmount().Equal(decimal.NewFromInt(751)))

	_, err = order.MarkAsSent()
	require.NoError(t, err)
	require.NoError(t, uow.Orders().Update(ctx, order))
	require.NoError(t, uow.Commit(ctx))

	fetched, err = uow.Orders().Get(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, fetched.Status())
	assert.Len(t, fetched.Items(), 2)

	require.NoError(t, uow.Orders().Delete(ctx, order.ID()))
	require.NoError(t, uow.Commit(ctx))
	_, err = uow.Orders().Get(ctx, order.ID())
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, uow.Orders().Delete(ctx, order.ID()))
	assert.ErrorIs(t, uow.Commit(ctx), ports.ErrNotFound)
}

func TestUnitOfWork_CommitIsAtomic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderingPostgresContainer(t)
	defer cleanup()

	uow := NewStore(db).New()
	ctx := context.Background()
	first := pendingOrder(t)
	require.NoError(t, uow.Orders().Add(ctx, first))
	require.NoError(t, uow.Commit(ctx))

	second := pendingOrder(t)
	require.NoError(t, uow.Orders().Add(ctx, second))
	require.NoError(t, uow.Orders().Add(ctx, first))
	assert.ErrorIs(t, uow.Commit(ctx), ports.ErrConflict)

	_, err := uow.Orders().Get(ctx, second.ID())
	assert.ErrorIs(t, err, ports.ErrNotFound)

	list, err := uow.Orders().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUnitOfWork_Dishes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrderingPostgresContainer(t)
	defer cleanup()

	uow := NewStore(db).New()
	ctx := context.Background()

	dish, err := domain.NewDish("1", "HOT001", "Борщ с пампушками", decimal.RequireFromString("280.50"), false, "Горячие блюда\\Супы")
	require.NoError(t, err)
	require.NoError(t, dish.AddBarcode("4600000000011"))
	require.NoError(t, uow.Dishes().Add(ctx, dish))
	require.NoError(t, uow.Commit(ctx))

	byArticle, err := uow.Dishes().GetByArticle(ctx, "HOT001")
	require.NoError(t, err)
	assert.Equal(t, "1", byArticle.ID)
	assert.Equal(t, []string{"4600000000011"}, byArticle.Barcodes())
	assert.True(t, byArticle.Price.Equal(decimal.RequireFromString("280.5")))

	clash, err := domain.NewDish("2", "HOT001", "другое", decimal.NewFromInt(1), false, "")
	require.NoError(t, err)
	require.NoError(t, uow.Dishes().Add(ctx, clash))
	assert.ErrorIs(t, uow.Commit(ctx), ports.ErrConflict)

	require.NoError(t, byArticle.UpdatePrice(decimal.NewFromInt(300)))
	byArticle.RemoveBarcode("4600000000011")
	require.NoError(t, uow.Dishes().Update(ctx, byArticle))
	require.NoError(t, uow.Commit(ctx))

	stored, err := uow.Dishes().Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.NewFromInt(300)))
	assert.Empty(t, stored.Barcodes())

	require.NoError(t, uow.Dishes().Delete(ctx, "1"))
	require.NoError(t, uow.Commit(ctx))
	list, err := uow.Dishes().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
