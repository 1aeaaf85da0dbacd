package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

const (
	defaultFinalizeTimeout = 10 * time.Second
	// DefaultRejectionReason is recorded when the backend rejects without a message.
	DefaultRejectionReason = "order rejected by backend"
)

// Service orchestrates the ordering use cases.
type Service struct {
	transport       ports.Transport
	uow             ports.UnitOfWorkFactory
	events          ports.EventSink
	logger          *slog.Logger
	validate        *validator.Validate
	now             func() time.Time
	newID           func() uuid.UUID
	finalizeTimeout time.Duration
}

// Option configures optional collaborators.
type Option func(*Service)

// WithEventSink routes transition events to sink.
func WithEventSink(sink ports.EventSink) Option {
	return func(s *Service) {
		s.events = sink
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to stamp new orders.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithFinalizeTimeout bounds the final persistence step, which runs detached
// from the caller's cancellation.
func WithFinalizeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.finalizeTimeout = d
		}
	}
}

// NewService wires the ordering service with its dependencies.
func NewService(transport ports.Transport, uow ports.UnitOfWorkFactory, opts ...Option) *Service {
	s := &Service{
		transport:       transport,
		uow:             uow,
		validate:        newValidator(),
		now:             time.Now,
		newID:           uuid.New,
		finalizeTimeout: defaultFinalizeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// SubmitOrder records the order, dispatches it and records the outcome.
// A dispatch failure is reported in the result; only validation and
// persistence faults are returned as errors.
func (s *Service) SubmitOrder(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return types.SubmitOrderResult{}, err
	}
	uow := s.uow.New()
	if err := s.record(ctx, uow, order); err != nil {
		return types.SubmitOrderResult{}, err
	}
	outcome := s.dispatch(ctx, order)
	return s.finalize(ctx, uow, order, outcome)
}

// RecordOrder validates and durably records a pending order.
func (s *Service) RecordOrder(ctx context.Context, input types.SubmitOrderInput) (*types.OrderProjection, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, s.uow.New(), order); err != nil {
		return nil, err
	}
	return types.NewOrderProjection(order), nil
}

// DispatchOrder sends a recorded order. Transport failures are folded into the outcome.
func (s *Service) DispatchOrder(ctx context.Context, id uuid.UUID) (types.DispatchOutcome, error) {
	order, err := s.uow.New().Orders().Get(ctx, id)
	if err != nil {
		return types.DispatchOutcome{}, mapError(err)
	}
	return s.dispatch(ctx, order), nil
}

// FinalizeOrder applies a dispatch outcome to a recorded order.
func (s *Service) FinalizeOrder(ctx context.Context, input types.FinalizeOrderInput) (types.SubmitOrderResult, error) {
	uow := s.uow.New()
	order, err := uow.Orders().Get(ctx, input.OrderID)
	if err != nil {
		return types.SubmitOrderResult{}, mapError(err)
	}
	return s.finalize(ctx, uow, order, input.Outcome)
}

// GetMenu reads the remote catalog.
func (s *Service) GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error) {
	dishes, err := s.transport.GetMenu(ctx, withPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMenuUnavailable, err)
	}
	return dishes, nil
}

// SyncMenu fetches the remote catalog and upserts it into local storage.
func (s *Service) SyncMenu(ctx context.Context, withPrice bool) (types.MenuSyncResult, error) {
	dishes, err := s.GetMenu(ctx, withPrice)
	if err != nil {
		return types.MenuSyncResult{}, err
	}
	uow := s.uow.New()
	result := types.MenuSyncResult{Fetched: len(dishes)}
	for _, dish := range dishes {
		_, err := uow.Dishes().Get(ctx, dish.ID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			if err := uow.Dishes().Add(ctx, dish); err != nil {
				return types.MenuSyncResult{}, internalError(err)
			}
			result.Created++
		case err != nil:
			return types.MenuSyncResult{}, internalError(err)
		default:
			if err := uow.Dishes().Update(ctx, dish); err != nil {
				return types.MenuSyncResult{}, internalError(err)
			}
			result.Updated++
		}
	}
	if err := uow.Commit(ctx); err != nil {
		return types.MenuSyncResult{}, internalError(err)
	}
	return result, nil
}

// GetOrder loads a recorded order.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*types.OrderProjection, error) {
	order, err := s.uow.New().Orders().Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return types.NewOrderProjection(order), nil
}

// ListOrders returns every recorded order, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	orders, err := s.uow.New().Orders().List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedDate().After(orders[j].CreatedDate())
	})
	result := make([]*types.OrderProjection, 0, len(orders))
	for _, order := range orders {
		result = append(result, types.NewOrderProjection(order))
	}
	return result, nil
}

// DeleteOrder removes a recorded order. Administrative only.
func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	uow := s.uow.New()
	if _, err := uow.Orders().Get(ctx, id); err != nil {
		return mapError(err)
	}
	if err := uow.Orders().Delete(ctx, id); err != nil {
		return mapError(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return internalError(err)
	}
	return nil
}

func (s *Service) buildOrder(input types.SubmitOrderInput) (*domain.Order, error) {
	if err := s.validateSubmission(input); err != nil {
		return nil, err
	}
	order := domain.NewOrder(s.newID(), s.now())
	for _, item := range input.Items {
		if err := order.AddItem(item.DishID, item.Quantity, item.UnitPrice, item.DishName); err != nil {
			return nil, mapError(err)
		}
	}
	return order, nil
}

func (s *Service) record(ctx context.Context, uow ports.UnitOfWork, order *domain.Order) error {
	if err := uow.Orders().Add(ctx, order); err != nil {
		return internalError(err)
	}
	if err := uow.Commit(ctx); err != nil {
		return internalError(err)
	}
	s.logger.InfoContext(ctx, "order recorded", slog.String("order.id", order.ID().String()))
	return nil
}

func (s *Service) dispatch(ctx context.Context, order *domain.Order) types.DispatchOutcome {
	result, err := s.transport.SendOrder(ctx, order)
	if err != nil {
		return types.DispatchOutcome{Reason: err.Error()}
	}
	if !result.Accepted {
		reason := result.ErrorMessage
		if strings.TrimSpace(reason) == "" {
			reason = DefaultRejectionReason
		}
		return types.DispatchOutcome{Reason: reason}
	}
	return types.DispatchOutcome{Accepted: true}
}

// finalize persists on a context detached from the caller's cancellation so the
// order always leaves Pending.
func (s *Service) finalize(ctx context.Context, uow ports.UnitOfWork, order *domain.Order, outcome types.DispatchOutcome) (types.SubmitOrderResult, error) {
	var event domain.Event
	if outcome.Accepted {
		sent, err := order.MarkAsSent()
		if err != nil {
			return types.SubmitOrderResult{}, internalError(err)
		}
		event = sent
	} else {
		failed, err := order.MarkAsFailed(outcome.Reason)
		if err != nil {
			return types.SubmitOrderResult{}, internalError(err)
		}
		event = failed
	}

	finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.finalizeTimeout)
	defer cancel()
	if err := uow.Orders().Update(finalCtx, order); err != nil {
		return types.SubmitOrderResult{}, internalError(err)
	}
	if err := uow.Commit(finalCtx); err != nil {
		return types.SubmitOrderResult{}, internalError(err)
	}
	s.publish(finalCtx, event)

	if !outcome.Accepted {
		s.logger.WarnContext(ctx, "order dispatch failed",
			slog.String("order.id", order.ID().String()),
			slog.String("reason", outcome.Reason))
		return types.SubmitOrderResult{OrderID: order.ID(), ErrorMessage: outcome.Reason}, nil
	}
	s.logger.InfoContext(ctx, "order sent", slog.String("order.id", order.ID().String()))
	return types.SubmitOrderResult{Success: true, OrderID: order.ID()}, nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.events == nil || event == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish domain event",
			slog.String("event", event.EventName()),
			slog.String("error", err.Error()))
	}
}

var (
	_ ports.Service         = (*Service)(nil)
	_ ports.SubmissionSteps = (*Service)(nil)
)
