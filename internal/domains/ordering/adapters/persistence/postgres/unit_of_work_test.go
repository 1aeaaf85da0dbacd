package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

func TestUnitOfWork_RequiresDB(t *testing.T) {
	uow := NewStore(nil).New()
	ctx := context.Background()

	_, err := uow.Orders().Get(ctx, uuid.New())
	require.Error(t, err)
	_, err = uow.Dishes().List(ctx)
	require.Error(t, err)

	require.NoError(t, uow.Orders().Delete(ctx, uuid.New()))
	require.Error(t, uow.Commit(ctx))
}

func TestTranslate(t *testing.T) {
	require.ErrorIs(t, translate(gorm.ErrRecordNotFound), ports.ErrNotFound)
	require.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ports.ErrConflict)
	require.ErrorIs(t, translate(gorm.ErrDuplicatedKey), gorm.ErrDuplicatedKey)

	other := errors.New("connection reset")
	require.Equal(t, other, translate(other))
}
