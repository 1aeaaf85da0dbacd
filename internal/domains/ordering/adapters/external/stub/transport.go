package stub

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

const transportName = "stub"

var _ ports.Transport = (*Transport)(nil)

// Transport is an in-process stand-in for the order backend.
type Transport struct {
	policy     Policy
	minLatency time.Duration
	maxLatency time.Duration
	logger     *slog.Logger
}

type Option func(*Transport)

// WithPolicy replaces the default accept-all policy.
func WithPolicy(p Policy) Option {
	return func(t *Transport) {
		if p != nil {
			t.policy = p
		}
	}
}

// WithLatency delays each order dispatch by a random duration in [min, max].
func WithLatency(min, max time.Duration) Option {
	return func(t *Transport) {
		if max < min {
			max = min
		}
		t.minLatency, t.maxLatency = min, max
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

func New(opts ...Option) *Transport {
	t := &Transport{policy: AcceptAll()}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return t
}

// GetMenu returns the fixed catalog. Prices are always included.
func (t *Transport) GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ports.TransportError{Transport: transportName, Op: "GetMenu", Err: err}
	}
	t.logger.InfoContext(ctx, "stub transport serving menu", slog.Bool("withPrice", withPrice))
	return Catalog(), nil
}

// SendOrder applies the configured policy after the simulated latency.
func (t *Transport) SendOrder(ctx context.Context, order *domain.Order) (ports.DispatchResult, error) {
	t.logger.InfoContext(ctx, "stub transport received order",
		slog.String("order.id", order.ID().String()),
		slog.Int("items", len(order.Items())),
		slog.String("total", order.TotalAmount().StringFixed(2)))
	if err := t.wait(ctx); err != nil {
		return ports.DispatchResult{}, &ports.TransportError{Transport: transportName, Op: "SendOrder", Err: err}
	}
	return t.policy(order), nil
}

func (t *Transport) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	delay := t.minLatency
	if spread := t.maxLatency - t.minLatency; spread > 0 {
		delay += rand.N(spread)
	}
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
