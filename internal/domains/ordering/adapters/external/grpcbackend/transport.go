package grpcbackend

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcclient "github.com/Apurer/go-order-dispatch/internal/clients/grpc/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

const transportName = "gRPC"

var _ ports.Transport = (*Transport)(nil)

// Transport implements the backend port over unary gRPC calls.
type Transport struct {
	client *grpcclient.Client
}

func New(client *grpcclient.Client) *Transport {
	return &Transport{client: client}
}

// GetMenu fetches the catalog. Success=false becomes a RemoteError.
func (t *Transport) GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error) {
	if t == nil || t.client == nil {
		return nil, errors.New("grpc transport not configured")
	}
	resp, err := t.client.GetMenu(ctx, withPrice)
	if err != nil {
		return nil, rpcFailure("GetMenu", err)
	}
	if !resp.Success {
		return nil, &ports.RemoteError{Message: resp.ErrorMessage}
	}
	dishes := make([]*domain.Dish, 0, len(resp.MenuItems))
	for _, item := range resp.MenuItems {
		dish, err := toDish(item)
		if err != nil {
			return nil, &ports.TransportError{Transport: transportName, Op: "GetMenu", Err: err}
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

// SendOrder sends the order. Success=false is a business rejection.
func (t *Transport) SendOrder(ctx context.Context, order *domain.Order) (ports.DispatchResult, error) {
	if t == nil || t.client == nil {
		return ports.DispatchResult{}, errors.New("grpc transport not configured")
	}
	resp, err := t.client.SendOrder(ctx, toOrderMessage(order))
	if err != nil {
		return ports.DispatchResult{}, rpcFailure("SendOrder", err)
	}
	return ports.DispatchResult{Accepted: resp.Success, ErrorMessage: resp.ErrorMessage}, nil
}

// rpcFailure reports the status detail of an RPC error and keeps the original
// error in the chain.
func rpcFailure(op string, err error) error {
	return &ports.TransportError{Transport: transportName, Op: op, Err: &rpcError{status: status.Convert(err), err: err}}
}

type rpcError struct {
	status *status.Status
	err    error
}

func (e *rpcError) Error() string { return e.status.Message() }

func (e *rpcError) Unwrap() error { return e.err }

func (e *rpcError) GRPCStatus() *status.Status { return e.status }

// Is matches the context error a deadline or cancellation status stands for.
func (e *rpcError) Is(target error) bool {
	switch e.status.Code() {
	case codes.DeadlineExceeded:
		return target == context.DeadlineExceeded
	case codes.Canceled:
		return target == context.Canceled
	default:
		return false
	}
}

func toOrderMessage(order *domain.Order) grpcclient.Order {
	items := order.Items()
	msg := grpcclient.Order{ID: order.ID().String(), OrderItems: make([]grpcclient.OrderItem, 0, len(items))}
	for _, item := range items {
		msg.OrderItems = append(msg.OrderItems, grpcclient.OrderItem{
			ID:       item.DishID,
			Quantity: item.Quantity.InexactFloat64(),
		})
	}
	return msg
}

func toDish(item grpcclient.MenuItem) (*domain.Dish, error) {
	dish, err := domain.NewDish(item.ID, item.Article, item.Name, decimal.NewFromFloat(item.Price), item.IsWeighted, item.FullPath)
	if err != nil {
		return nil, fmt.Errorf("malformed menu item %q: %w", item.ID, err)
	}
	for _, code := range item.Barcodes {
		if err := dish.AddBarcode(code); err != nil {
			return nil, fmt.Errorf("malformed menu item %q: %w", item.ID, err)
		}
	}
	return dish, nil
}

// FromDishes converts catalog entries into wire menu items.
func FromDishes(dishes []*domain.Dish) []grpcclient.MenuItem {
	items := make([]grpcclient.MenuItem, 0, len(dishes))
	for _, dish := range dishes {
		items = append(items, grpcclient.MenuItem{
			ID:         dish.ID,
			Article:    dish.Article,
			Name:       dish.Name,
			Price:      dish.Price.InexactFloat64(),
			IsWeighted: dish.IsWeighted,
			FullPath:   dish.FullPath,
			Barcodes:   dish.Barcodes(),
		})
	}
	return items
}
