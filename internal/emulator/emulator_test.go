package emulator

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	backendrpc "github.com/Apurer/go-order-dispatch/internal/clients/grpc/backend"
	backendclient "github.com/Apurer/go-order-dispatch/internal/clients/http/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/grpcbackend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/httpbackend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/stub"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

func testOrder(t *testing.T, quantity int64) *domain.Order {
	t.Helper()
	order := domain.NewOrder(uuid.New(), time.Now())
	require.NoError(t, order.AddItem("1", decimal.NewFromInt(quantity), decimal.RequireFromString("280.50"), "Борщ с пампушками"))
	return order
}

func TestBackend_Order(t *testing.T) {
	ctx := context.Background()
	backend := NewBackend(WithPolicy(stub.Thresholds(func() float64 { return 0 })))

	result := backend.Order(ctx, uuid.NewString(), []Line{{DishID: "1", Quantity: decimal.NewFromInt(2)}})
	require.True(t, result.Accepted)

	result = backend.Order(ctx, uuid.NewString(), []Line{{DishID: "1", Quantity: decimal.NewFromInt(11)}})
	require.False(t, result.Accepted)
	require.Equal(t, "Maximum quantity per item is 10", result.ErrorMessage)

	result = backend.Order(ctx, uuid.NewString(), []Line{{DishID: "999", Quantity: decimal.NewFromInt(1)}})
	require.Equal(t, "Menu item not found: 999", result.ErrorMessage)

	result = backend.Order(ctx, "not-an-id", []Line{{DishID: "1", Quantity: decimal.NewFromInt(1)}})
	require.Equal(t, "Invalid order id: not-an-id", result.ErrorMessage)

	result = backend.Order(ctx, uuid.NewString(), nil)
	require.Equal(t, "Order has no items", result.ErrorMessage)

	result = backend.Order(ctx, uuid.NewString(), []Line{{DishID: "1", Quantity: decimal.Zero}})
	require.Equal(t, "Invalid quantity for 1", result.ErrorMessage)
}

func startHTTP(t *testing.T, backend *Backend, creds Credentials) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(NewHTTPHandler(backend, creds))
	t.Cleanup(srv.Close)
	return srv.URL + "/"
}

func TestHTTP_RoundTripThroughTransport(t *testing.T) {
	url := startHTTP(t, NewBackend(WithPolicy(stub.Thresholds(func() float64 { return 0 }))), Credentials{Username: "user", Password: "secret"})
	client, err := backendclient.NewClient(url, backendclient.WithBasicAuth("user", "secret"))
	require.NoError(t, err)
	transport := httpbackend.New(client)

	dishes, err := transport.GetMenu(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, dishes, 20)
	require.Equal(t, []string{"4600000000011", "4600000000012"}, dishes[0].Barcodes())

	result, err := transport.SendOrder(context.Background(), testOrder(t, 2))
	require.NoError(t, err)
	require.True(t, result.Accepted)

	result, err = transport.SendOrder(context.Background(), testOrder(t, 11))
	require.NoError(t, err)
	require.False(t, result.Accepted)
	require.Equal(t, "Maximum quantity per item is 10", result.ErrorMessage)
}

func TestHTTP_RequiresCredentials(t *testing.T) {
	url := startHTTP(t, NewBackend(), Credentials{Username: "user", Password: "secret"})
	client, err := backendclient.NewClient(url, backendclient.WithBasicAuth("user", "wrong"))
	require.NoError(t, err)

	_, _, err = client.GetMenu(context.Background(), true)
	var statusErr *backendclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestHTTP_UnknownCommandAndBadParameters(t *testing.T) {
	url := startHTTP(t, NewBackend(), Credentials{})
	client, err := backendclient.NewClient(url)
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), "Refund", nil)
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, "Unknown command: Refund", resp.ErrorMessage)

	resp, err = client.Do(context.Background(), backendclient.CommandSendOrder, map[string]any{"MenuItems": "nope"})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.True(t, strings.HasPrefix(resp.ErrorMessage, "Invalid command parameters"))

	resp, err = client.SendOrder(context.Background(), backendclient.SendOrderParameters{
		OrderID:   uuid.NewString(),
		MenuItems: []backendclient.OrderMenuItem{{ID: "1", Quantity: "two"}},
	})
	require.NoError(t, err)
	require.Equal(t, "Invalid quantity for 1", resp.ErrorMessage)
}

func TestGRPC_RoundTripThroughTransport(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(NewBackend(WithPolicy(stub.Thresholds(func() float64 { return 0 }))))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := backendrpc.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	transport := grpcbackend.New(client)

	dishes, err := transport.GetMenu(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, dishes, 20)
	require.True(t, dishes[0].Price.Equal(decimal.RequireFromString("280.5")))

	result, err := transport.SendOrder(context.Background(), testOrder(t, 1))
	require.NoError(t, err)
	require.True(t, result.Accepted)

	result, err = transport.SendOrder(context.Background(), testOrder(t, 40))
	require.NoError(t, err)
	require.False(t, result.Accepted)
	require.Equal(t, "Order amount exceeds maximum limit of 10000", result.ErrorMessage)
}

func TestHTTP_MenuPricesAreNumeric(t *testing.T) {
	client, err := backendclient.NewClient(startHTTP(t, NewBackend(), Credentials{}))
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), backendclient.CommandGetMenu, backendclient.GetMenuParameters{WithPrice: true})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Contains(t, string(resp.Data), `"Price":280.5`)
	require.Contains(t, string(resp.Data), `"Barcodes":[]`)
}
