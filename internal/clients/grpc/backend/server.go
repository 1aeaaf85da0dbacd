package backend

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// BackendServer is implemented by anything serving the backend contract.
type BackendServer interface {
	GetMenu(ctx context.Context, withPrice bool) (MenuResponse, error)
	SendOrder(ctx context.Context, order Order) (OrderResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackendServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMenu", Handler: getMenuHandler},
		{MethodName: "SendOrder", Handler: sendOrderHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

// RegisterBackendServer registers srv on a gRPC server.
func RegisterBackendServer(registrar grpc.ServiceRegistrar, srv BackendServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

func getMenuHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := &wrapperspb.BoolValue{}
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		resp, err := srv.(BackendServer).GetMenu(ctx, req.(*wrapperspb.BoolValue).GetValue())
		if err != nil {
			return nil, err
		}
		return encodeMenuResponse(resp), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetMenuFullMethod}
	return interceptor(ctx, in, info, handler)
}

func sendOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := newMessage(contract.order)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		resp, err := srv.(BackendServer).SendOrder(ctx, decodeOrder(req.(*dynamicpb.Message)))
		if err != nil {
			return nil, err
		}
		return encodeOrderResponse(resp), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SendOrderFullMethod}
	return interceptor(ctx, in, info, handler)
}
