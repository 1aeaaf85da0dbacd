package sequences

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	orderactivities "github.com/Apurer/go-order-dispatch/internal/platform/temporal/activities/ordering"
)

// DispatchTimeoutReason is recorded when the dispatch activity does not finish in time.
const DispatchTimeoutReason = "order dispatch timed out"

// SubmissionTimeouts bounds each activity of the sequence.
type SubmissionTimeouts struct {
	Record   time.Duration
	Dispatch time.Duration
	Finalize time.Duration
}

// DefaultSubmissionTimeouts leaves room for the transport's own 30s client timeout.
var DefaultSubmissionTimeouts = SubmissionTimeouts{
	Record:   30 * time.Second,
	Dispatch: 45 * time.Second,
	Finalize: 30 * time.Second,
}

// RunOrderSubmissionSequence records, dispatches and finalizes an order.
// Every activity runs at most once. The finalize step runs on a disconnected
// context so a cancelled workflow still moves the order out of Pending.
func RunOrderSubmissionSequence(ctx workflow.Context, input types.SubmitOrderInput, timeouts SubmissionTimeouts) (types.SubmitOrderResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order submission sequence started", "lines", len(input.Items))

	var recorded types.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, singleAttempt(timeouts.Record)), orderactivities.RecordOrderActivityName, input).Get(ctx, &recorded)
	if err != nil {
		logger.Error("order submission sequence failed to record", "error", err)
		return types.SubmitOrderResult{}, err
	}
	orderID := recorded.ID.String()
	logger.Info("order submission sequence recorded", "orderId", orderID)

	var outcome types.DispatchOutcome
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, singleAttempt(timeouts.Dispatch)), orderactivities.DispatchOrderActivityName, recorded.ID).Get(ctx, &outcome)
	if err != nil {
		logger.Warn("order submission sequence dispatch failed", "orderId", orderID, "error", err)
		outcome = types.DispatchOutcome{Reason: DispatchFailureReason(err)}
	}

	finalCtx, _ := workflow.NewDisconnectedContext(ctx)
	var result types.SubmitOrderResult
	finalize := types.FinalizeOrderInput{OrderID: recorded.ID, Outcome: outcome}
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(finalCtx, singleAttempt(timeouts.Finalize)), orderactivities.FinalizeOrderActivityName, finalize).Get(finalCtx, &result)
	if err != nil {
		logger.Error("order submission sequence failed to finalize", "orderId", orderID, "error", err)
		return types.SubmitOrderResult{}, err
	}
	logger.Info("order submission sequence finalized", "orderId", orderID, "success", result.Success)
	return result, nil
}

// DispatchFailureReason reduces an activity failure to the text stored as the failure reason.
func DispatchFailureReason(err error) string {
	var timeoutErr *temporal.TimeoutError
	if errors.As(err, &timeoutErr) {
		return DispatchTimeoutReason
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	var canceledErr *temporal.CanceledError
	if errors.As(err, &canceledErr) {
		return "order dispatch canceled"
	}
	return err.Error()
}

func singleAttempt(timeout time.Duration) workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
}
