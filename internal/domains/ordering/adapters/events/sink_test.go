package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

type capture struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *capture) Publish(subject string, data []byte) error {
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return c.err
}

func failed() domain.OrderFailed {
	return domain.OrderFailed{
		BaseEvent: domain.BaseEvent{Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		OrderID:   uuid.MustParse("3f1c2a7e-0a3b-4d5e-9f60-1a2b3c4d5e6f"),
		Reason:    "Maximum quantity per item is 10",
	}
}

func TestNATSSink_PublishesEnvelope(t *testing.T) {
	pub := &capture{}
	sink := NewNATSSink(pub, "orders")

	require.NoError(t, sink.Publish(context.Background(), failed()))
	require.Equal(t, []string{"orders.ordering.order.failed"}, pub.subjects)

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.payloads[0], &env))
	require.Equal(t, "ordering.order.failed", env.Name)
	require.Equal(t, failed().OrderID, env.OrderID)
	require.Equal(t, "Maximum quantity per item is 10", env.Reason)
	require.NoError(t, sink.Close())
}

func TestNATSSink_HonoursCancellation(t *testing.T) {
	pub := &capture{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, NewNATSSink(pub, "").Publish(ctx, failed()), context.Canceled)
	require.Empty(t, pub.subjects)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, sink.Publish(context.Background(), domain.OrderSent{OrderID: uuid.New()}))
	require.Contains(t, buf.String(), `"event":"ordering.order.sent"`)
	require.NotContains(t, buf.String(), "reason")
}

func TestFanout_JoinsErrors(t *testing.T) {
	boom := errors.New("nats down")
	ok, broken := &capture{}, &capture{err: boom}
	err := Fanout{NewNATSSink(broken, ""), nil, NewNATSSink(ok, "")}.Publish(context.Background(), failed())
	require.ErrorIs(t, err, boom)
	require.Len(t, ok.subjects, 1)
}
