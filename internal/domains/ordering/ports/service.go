package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

// Service defines the ordering use cases exposed to adapters (inbound/driving port).
type Service interface {
	SubmitOrder(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error)
	GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error)
	SyncMenu(ctx context.Context, withPrice bool) (types.MenuSyncResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*types.OrderProjection, error)
	ListOrders(ctx context.Context) ([]*types.OrderProjection, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// SubmissionSteps exposes the submission sequence one step at a time so a
// durable workflow can run each step as its own activity.
type SubmissionSteps interface {
	RecordOrder(ctx context.Context, input types.SubmitOrderInput) (*types.OrderProjection, error)
	DispatchOrder(ctx context.Context, id uuid.UUID) (types.DispatchOutcome, error)
	FinalizeOrder(ctx context.Context, input types.FinalizeOrderInput) (types.SubmitOrderResult, error)
}
