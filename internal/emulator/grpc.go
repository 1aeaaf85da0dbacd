package emulator

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	backendrpc "github.com/Apurer/go-order-dispatch/internal/clients/grpc/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/grpcbackend"
)

// grpcServer adapts Backend to the RPC service contract.
type grpcServer struct {
	backend *Backend
}

// NewGRPCServer returns a gRPC server with the backend service registered.
func NewGRPCServer(backend *Backend, opts ...grpc.ServerOption) *grpc.Server {
	srv := grpc.NewServer(opts...)
	backendrpc.RegisterBackendServer(srv, grpcServer{backend: backend})
	return srv
}

func (s grpcServer) GetMenu(ctx context.Context, withPrice bool) (backendrpc.MenuResponse, error) {
	items := grpcbackend.FromDishes(s.backend.Menu(ctx, withPrice))
	return backendrpc.MenuResponse{Success: true, MenuItems: items}, nil
}

func (s grpcServer) SendOrder(ctx context.Context, order backendrpc.Order) (backendrpc.OrderResponse, error) {
	lines := make([]Line, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		lines = append(lines, Line{DishID: item.ID, Quantity: decimal.NewFromFloat(item.Quantity)})
	}
	result := s.backend.Order(ctx, order.ID, lines)
	return backendrpc.OrderResponse{Success: result.Accepted, ErrorMessage: result.ErrorMessage}, nil
}
