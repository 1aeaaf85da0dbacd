package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/stub"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	orderactivities "github.com/Apurer/go-order-dispatch/internal/platform/temporal/activities/ordering"
)

func TestInlineOrderWorkflows(t *testing.T) {
	svc := application.NewService(stub.New(), memory.NewStore())
	_, err := NewInlineOrderWorkflows(svc).SubmitOrder(context.Background(), types.SubmitOrderInput{})
	require.ErrorIs(t, err, application.ErrInvalidInput)

	var unset *InlineOrderWorkflows
	_, err = unset.SubmitOrder(context.Background(), types.SubmitOrderInput{})
	require.Error(t, err)
}

func TestTemporalOrderWorkflows_RequiresClient(t *testing.T) {
	_, err := NewTemporalOrderWorkflows(nil).SubmitOrder(context.Background(), types.SubmitOrderInput{})
	require.Error(t, err)
}

func TestFromWorkflowError(t *testing.T) {
	invalid := temporal.NewNonRetryableApplicationError("invalid order input: dish id is required", orderactivities.ErrorTypeInvalidInput, nil)
	err := fromWorkflowError(invalid)
	require.ErrorIs(t, err, application.ErrInvalidInput)
	require.Equal(t, "invalid order input: dish id is required", err.Error())

	internal := temporal.NewNonRetryableApplicationError("internal error: disk full", orderactivities.ErrorTypeInternal, nil)
	require.Equal(t, "internal error: disk full", fromWorkflowError(internal).Error())

	err = fromWorkflowError(errors.New("workflow timed out"))
	require.ErrorIs(t, err, application.ErrInternal)
}

func TestBuildSubmissionWorkflowID(t *testing.T) {
	traceID := trace.TraceID{1, 2, 3}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  trace.SpanID{1},
	}))
	require.Equal(t, traceID.String(), workflowTraceID(ctx))
	require.Empty(t, workflowTraceID(context.Background()))

	id := buildSubmissionWorkflowID(workflowTraceID(ctx))
	require.True(t, strings.HasPrefix(id, "order-submission-"+traceID.String()+"-"))
	require.NotEqual(t, id, buildSubmissionWorkflowID(workflowTraceID(ctx)))
	require.True(t, strings.HasPrefix(buildSubmissionWorkflowID(""), "order-submission-fallback-"))
}
