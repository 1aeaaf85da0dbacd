package ordering

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

const (
	// RecordOrderActivityName validates and stores a pending order.
	RecordOrderActivityName = "ordering.activities.RecordOrder"
	// DispatchOrderActivityName sends a recorded order to the backend.
	DispatchOrderActivityName = "ordering.activities.DispatchOrder"
	// FinalizeOrderActivityName records the dispatch outcome.
	FinalizeOrderActivityName = "ordering.activities.FinalizeOrder"
)

// Application error types carried across the workflow boundary.
const (
	ErrorTypeInvalidInput = "ordering.InvalidInput"
	ErrorTypeInternal     = "ordering.Internal"
)

// Activities groups activities that operate on the ordering bounded context.
type Activities struct {
	steps ports.SubmissionSteps
}

func NewActivities(steps ports.SubmissionSteps) *Activities {
	return &Activities{steps: steps}
}

// RecordOrder stores a new pending order and returns its projection.
func (a *Activities) RecordOrder(ctx context.Context, input types.SubmitOrderInput) (*types.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("record order activity not initialized")
		return nil, errors.New("record order activity not initialized")
	}
	logger.Info("RecordOrder activity started", "lines", len(input.Items))
	projection, err := a.steps.RecordOrder(ctx, input)
	if err != nil {
		logger.Error("RecordOrder activity failed", "error", err)
		return nil, asApplicationError(err)
	}
	logger.Info("RecordOrder activity completed", "orderId", projection.ID.String())
	return projection, nil
}

// DispatchOrder sends the order once; transport failures come back inside the outcome.
func (a *Activities) DispatchOrder(ctx context.Context, orderID uuid.UUID) (types.DispatchOutcome, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("dispatch order activity not initialized", "orderId", orderID.String())
		return types.DispatchOutcome{}, errors.New("dispatch order activity not initialized")
	}
	logger.Info("DispatchOrder activity started", "orderId", orderID.String())
	outcome, err := a.steps.DispatchOrder(ctx, orderID)
	if err != nil {
		logger.Error("DispatchOrder activity failed", "orderId", orderID.String(), "error", err)
		return types.DispatchOutcome{}, asApplicationError(err)
	}
	logger.Info("DispatchOrder activity completed", "orderId", orderID.String(), "accepted", outcome.Accepted)
	return outcome, nil
}

// FinalizeOrder applies the outcome and returns the caller-facing result.
func (a *Activities) FinalizeOrder(ctx context.Context, input types.FinalizeOrderInput) (types.SubmitOrderResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("finalize order activity not initialized", "orderId", input.OrderID.String())
		return types.SubmitOrderResult{}, errors.New("finalize order activity not initialized")
	}
	logger.Info("FinalizeOrder activity started", "orderId", input.OrderID.String(), "accepted", input.Outcome.Accepted)
	result, err := a.steps.FinalizeOrder(ctx, input)
	if err != nil {
		logger.Error("FinalizeOrder activity failed", "orderId", input.OrderID.String(), "error", err)
		return types.SubmitOrderResult{}, asApplicationError(err)
	}
	logger.Info("FinalizeOrder activity completed", "orderId", input.OrderID.String(), "success", result.Success)
	return result, nil
}

func asApplicationError(err error) error {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidInput, err)
	case errors.Is(err, application.ErrInternal):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInternal, err)
	default:
		return err
	}
}
