package ports

import (
	"context"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

// EventSink observes domain events produced by order transitions.
type EventSink interface {
	Publish(ctx context.Context, event domain.Event) error
}
