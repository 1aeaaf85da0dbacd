// Package events delivers order transition events to observers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

// Envelope is the wire shape of a published event.
type Envelope struct {
	Name       string    `json:"name"`
	OrderID    uuid.UUID `json:"orderId"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEnvelope flattens a domain event.
func NewEnvelope(event domain.Event) Envelope {
	env := Envelope{Name: event.EventName(), OccurredAt: event.OccurredAt().UTC()}
	switch e := event.(type) {
	case domain.OrderSent:
		env.OrderID = e.OrderID
	case domain.OrderFailed:
		env.OrderID = e.OrderID
		env.Reason = e.Reason
	}
	return env
}

// LogSink writes every event as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event domain.Event) error {
	env := NewEnvelope(event)
	attrs := []slog.Attr{
		slog.String("event", env.Name),
		slog.String("order.id", env.OrderID.String()),
	}
	if env.Reason != "" {
		attrs = append(attrs, slog.String("reason", env.Reason))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "domain event", attrs...)
	return nil
}

// Publisher is the subset of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes JSON envelopes to "<prefix>.<event name>".
type NATSSink struct {
	publisher Publisher
	prefix    string
	close     func()
}

// DialNATS connects to url and returns a sink over the connection.
func DialNATS(url, prefix string) (*NATSSink, error) {
	conn, err := nats.Connect(url, nats.Name("order-dispatch"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	sink := NewNATSSink(conn, prefix)
	sink.close = conn.Close
	return sink, nil
}

func NewNATSSink(publisher Publisher, prefix string) *NATSSink {
	return &NATSSink{publisher: publisher, prefix: prefix, close: func() {}}
}

func (s *NATSSink) Subject(event domain.Event) string {
	if s.prefix == "" {
		return event.EventName()
	}
	return s.prefix + "." + event.EventName()
}

func (s *NATSSink) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(NewEnvelope(event))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return s.publisher.Publish(s.Subject(event), payload)
}

func (s *NATSSink) Close() error {
	s.close()
	return nil
}

// Fanout delivers to every sink and joins their failures.
type Fanout []ports.EventSink

func (f Fanout) Publish(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ ports.EventSink = (*LogSink)(nil)
	_ ports.EventSink = (*NATSSink)(nil)
	_ ports.EventSink = Fanout(nil)
)
