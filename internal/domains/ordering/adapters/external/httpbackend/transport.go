package httpbackend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	backendclient "github.com/Apurer/go-order-dispatch/internal/clients/http/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

const transportName = "HTTP"

var _ ports.Transport = (*Transport)(nil)

// Transport implements the backend port over the JSON envelope protocol.
type Transport struct {
	client *backendclient.Client
}

// New wires an envelope client into the transport port.
func New(client *backendclient.Client) *Transport {
	return &Transport{client: client}
}

// GetMenu fetches the catalog. An explicit failure envelope becomes a RemoteError.
func (t *Transport) GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error) {
	if t == nil || t.client == nil {
		return nil, errors.New("http transport not configured")
	}
	resp, data, err := t.client.GetMenu(ctx, withPrice)
	if err != nil {
		return nil, &ports.TransportError{Transport: transportName, Op: "GetMenu", Err: err}
	}
	if !resp.Success {
		return nil, &ports.RemoteError{Message: remoteMessage(resp.ErrorMessage)}
	}
	dishes, err := ToDishes(data.MenuItems)
	if err != nil {
		return nil, &ports.TransportError{Transport: transportName, Op: "GetMenu", Err: err}
	}
	return dishes, nil
}

// SendOrder posts the order. Success=false is a business rejection.
func (t *Transport) SendOrder(ctx context.Context, order *domain.Order) (ports.DispatchResult, error) {
	if t == nil || t.client == nil {
		return ports.DispatchResult{}, errors.New("http transport not configured")
	}
	resp, err := t.client.SendOrder(ctx, ToSendOrderParameters(order))
	if err != nil {
		return ports.DispatchResult{}, &ports.TransportError{Transport: transportName, Op: "SendOrder", Err: err}
	}
	return ports.DispatchResult{Accepted: resp.Success, ErrorMessage: resp.ErrorMessage}, nil
}

func remoteMessage(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return "unknown error"
	}
	return msg
}

// errMalformedItem marks a menu entry that cannot form a dish.
var errMalformedItem = errors.New("malformed menu item")

func wrapItemError(id string, err error) error {
	return fmt.Errorf("%w %q: %w", errMalformedItem, id, err)
}
