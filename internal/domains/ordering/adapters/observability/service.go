package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

const tracerName = "github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/observability/service"

// Service decorates the ordering port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// SubmitOrder records, dispatches and finalizes an order with instrumentation.
func (s *Service) SubmitOrder(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error) {
	ctx, span := s.startSpan(ctx, "Service.SubmitOrder", attribute.Int("order.lines", len(input.Items)))
	defer span.End()

	s.logInfo(ctx, "submitting order", slog.Int("order.lines", len(input.Items)))
	result, err := s.inner.SubmitOrder(ctx, input)
	if err != nil {
		s.metrics.recordSubmitted(ctx, "error")
		return result, s.handleError(ctx, span, err, "failed to submit order")
	}
	span.SetAttributes(attribute.String("order.id", result.OrderID.String()), attribute.Bool("order.success", result.Success))
	if !result.Success {
		s.metrics.recordSubmitted(ctx, string(domain.StatusFailed))
		span.SetStatus(codes.Error, result.ErrorMessage)
		s.logInfo(ctx, "order rejected", slog.String("order.id", result.OrderID.String()), slog.String("reason", result.ErrorMessage))
		return result, nil
	}
	s.metrics.recordSubmitted(ctx, string(domain.StatusSent))
	s.logInfo(ctx, "order submitted", slog.String("order.id", result.OrderID.String()))
	return result, nil
}

func (s *Service) GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error) {
	ctx, span := s.startSpan(ctx, "Service.GetMenu", attribute.Bool("menu.with_price", withPrice))
	defer span.End()

	dishes, err := s.inner.GetMenu(ctx, withPrice)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get menu")
	}
	span.SetAttributes(attribute.Int("menu.dishes", len(dishes)))
	s.logInfo(ctx, "menu fetched", slog.Int("count", len(dishes)))
	return dishes, nil
}

// SyncMenu mirrors the remote catalog into storage.
func (s *Service) SyncMenu(ctx context.Context, withPrice bool) (types.MenuSyncResult, error) {
	ctx, span := s.startSpan(ctx, "Service.SyncMenu", attribute.Bool("menu.with_price", withPrice))
	defer span.End()

	s.logInfo(ctx, "syncing menu")
	result, err := s.inner.SyncMenu(ctx, withPrice)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to sync menu")
	}
	s.metrics.recordSynced(ctx, result)
	s.logInfo(ctx, "menu synced",
		slog.Int("fetched", result.Fetched),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*types.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", id.String()))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get order", slog.String("order.id", id.String()))
	}
	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(orders)))
	return orders, nil
}

// DeleteOrder removes a recorded order.
func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteOrder", attribute.String("order.id", id.String()))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", id.String()))
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", id.String()))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", id.String()))
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersSubmitted metric.Int64Counter
	ordersDeleted   metric.Int64Counter
	dishesSynced    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersSubmitted, _ := m.Int64Counter("orders.submitted", metric.WithDescription("Number of order submissions by outcome"))
	ordersDeleted, _ := m.Int64Counter("orders.deleted", metric.WithDescription("Number of orders deleted"))
	dishesSynced, _ := m.Int64Counter("menu.dishes.synced", metric.WithDescription("Number of dishes written by menu sync"))
	return serviceMetrics{
		ordersSubmitted: ordersSubmitted,
		ordersDeleted:   ordersDeleted,
		dishesSynced:    dishesSynced,
	}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, outcome string) {
	addCounter(ctx, m.ordersSubmitted, 1, attribute.String("order.outcome", outcome))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.ordersDeleted, 1)
}

func (m serviceMetrics) recordSynced(ctx context.Context, result types.MenuSyncResult) {
	addCounter(ctx, m.dishesSynced, int64(result.Created), attribute.String("menu.write", "created"))
	addCounter(ctx, m.dishesSynced, int64(result.Updated), attribute.String("menu.write", "updated"))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
