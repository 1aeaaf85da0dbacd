package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

type fakeService struct {
	result types.SubmitOrderResult
	err    error
}

func (f *fakeService) SubmitOrder(context.Context, types.SubmitOrderInput) (types.SubmitOrderResult, error) {
	return f.result, f.err
}

func (f *fakeService) GetMenu(context.Context, bool) ([]*domain.Dish, error) { return nil, f.err }

func (f *fakeService) SyncMenu(context.Context, bool) (types.MenuSyncResult, error) {
	return types.MenuSyncResult{Fetched: 2, Created: 2}, f.err
}

func (f *fakeService) GetOrder(context.Context, uuid.UUID) (*types.OrderProjection, error) {
	return nil, f.err
}

func (f *fakeService) ListOrders(context.Context) ([]*types.OrderProjection, error) { return nil, f.err }

func (f *fakeService) DeleteOrder(context.Context, uuid.UUID) error { return f.err }

func instrumented(t *testing.T, inner *fakeService) (*tracetest.SpanRecorder, *sdkmetric.ManualReader, func(context.Context, types.SubmitOrderInput) (types.SubmitOrderResult, error)) {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	svc := New(inner,
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")),
	)
	return spans, reader, svc.SubmitOrder
}

func submittedByOutcome(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	counts := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "orders.submitted" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				outcome, _ := point.Attributes.Value("order.outcome")
				counts[outcome.AsString()] += point.Value
			}
		}
	}
	return counts
}

func TestSubmitOrder_RecordsOutcome(t *testing.T) {
	inner := &fakeService{result: types.SubmitOrderResult{Success: true, OrderID: uuid.New()}}
	spans, reader, submit := instrumented(t, inner)

	_, err := submit(context.Background(), types.SubmitOrderInput{})
	require.NoError(t, err)

	inner.result = types.SubmitOrderResult{OrderID: uuid.New(), ErrorMessage: "Maximum quantity per item is 10"}
	_, err = submit(context.Background(), types.SubmitOrderInput{})
	require.NoError(t, err)

	require.Equal(t, map[string]int64{"Sent": 1, "Failed": 1}, submittedByOutcome(t, reader))

	ended := spans.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "Service.SubmitOrder", ended[0].Name())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, codes.Error, ended[1].Status().Code)
	require.Equal(t, "Maximum quantity per item is 10", ended[1].Status().Description)
}

func TestSubmitOrder_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	spans, reader, submit := instrumented(t, &fakeService{err: boom})

	_, err := submit(context.Background(), types.SubmitOrderInput{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, map[string]int64{"error": 1}, submittedByOutcome(t, reader))
	require.Len(t, spans.Ended()[0].Events(), 1)
}

func TestNew_DefaultsAreSafe(t *testing.T) {
	svc := New(&fakeService{}, nil, WithLogger(nil), WithTracer(nil))
	result, err := svc.SyncMenu(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, 2, result.Created)
	require.NoError(t, svc.DeleteOrder(context.Background(), uuid.New()))
}
