package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

// DispatchResult reports how the backend answered a well-formed order exchange.
// Accepted=false is a business rejection, not a failure of the call.
type DispatchResult struct {
	Accepted     bool
	ErrorMessage string
}

// Transport talks to the remote order backend (outbound/driven port).
type Transport interface {
	GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error)
	SendOrder(ctx context.Context, order *domain.Order) (DispatchResult, error)
}

// TransportError signals the exchange could not be completed: network, protocol,
// timeout or an undecodable payload.
type TransportError struct {
	Transport string
	Op        string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Transport, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError carries an explicit failure envelope returned by the backend.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "server error: " + e.Message
}
