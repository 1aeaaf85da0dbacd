package ordering

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/platform/temporal/sequences"
)

const (
	// OrderSubmissionWorkflowName is the public identifier for registering the workflow.
	OrderSubmissionWorkflowName = "ordering.workflows.Submission"
	// OrderSubmissionTaskQueue is the queue consumed by the worker processing order workflows.
	OrderSubmissionTaskQueue = "ORDER_SUBMISSION"
)

// OrderSubmissionWorkflowInput captures the command plus the caller's trace id.
type OrderSubmissionWorkflowInput struct {
	Command types.SubmitOrderInput
	TraceID string
}

// OrderSubmissionWorkflow runs the submission sequence for one order.
func OrderSubmissionWorkflow(ctx workflow.Context, input OrderSubmissionWorkflowInput) (types.SubmitOrderResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderSubmissionWorkflow started", withTraceID(input.TraceID, "lines", len(input.Command.Items))...)
	result, err := sequences.RunOrderSubmissionSequence(ctx, input.Command, sequences.DefaultSubmissionTimeouts)
	if err != nil {
		logger.Error("OrderSubmissionWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return types.SubmitOrderResult{}, err
	}
	logger.Info("OrderSubmissionWorkflow completed", withTraceID(input.TraceID, "orderId", result.OrderID.String(), "success", result.Success)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
