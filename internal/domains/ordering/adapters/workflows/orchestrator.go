package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
	orderactivities "github.com/Apurer/go-order-dispatch/internal/platform/temporal/activities/ordering"
	orderworkflows "github.com/Apurer/go-order-dispatch/internal/platform/temporal/workflows/ordering"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order submissions on a Temporal cluster and
// waits for their result.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderSubmissionTaskQueue}
}

// SubmitOrder runs the submission workflow to completion.
func (o *TemporalOrderWorkflows) SubmitOrder(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error) {
	if o == nil || o.client == nil {
		return types.SubmitOrderResult{}, errors.New("temporal order workflows not configured")
	}
	traceID := workflowTraceID(ctx)
	options := client.StartWorkflowOptions{
		ID:                    buildSubmissionWorkflowID(traceID),
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderSubmissionWorkflowName,
		orderworkflows.OrderSubmissionWorkflowInput{Command: input, TraceID: traceID},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return types.SubmitOrderResult{}, fmt.Errorf("%w: submission %s already started", application.ErrInternal, options.ID)
		}
		return types.SubmitOrderResult{}, err
	}
	var result types.SubmitOrderResult
	if err := run.Get(ctx, &result); err != nil {
		return types.SubmitOrderResult{}, fromWorkflowError(err)
	}
	return result, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

func (o *InlineOrderWorkflows) SubmitOrder(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error) {
	if o == nil || o.service == nil {
		return types.SubmitOrderResult{}, errors.New("inline order workflows not configured")
	}
	return o.service.SubmitOrder(ctx, input)
}

// fromWorkflowError restores the application sentinels carried as
// application error types so callers can map them the same way as inline runs.
func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%w: %w", application.ErrInternal, err)
	}
	switch appErr.Type() {
	case orderactivities.ErrorTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, detail(appErr.Message(), application.ErrInvalidInput))
	default:
		return fmt.Errorf("%w: %s", application.ErrInternal, detail(appErr.Message(), application.ErrInternal))
	}
}

func detail(message string, sentinel error) string {
	return strings.TrimPrefix(message, sentinel.Error()+": ")
}

func buildSubmissionWorkflowID(traceID string) string {
	if traceID == "" {
		traceID = fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("order-submission-%s-%s", traceID, uuid.NewString())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
