// Package transport selects the backend transport once at process start.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	grpcclient "github.com/Apurer/go-order-dispatch/internal/clients/grpc/backend"
	httpclient "github.com/Apurer/go-order-dispatch/internal/clients/http/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/grpcbackend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/httpbackend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/stub"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

// Kind enumerates the transport variants.
type Kind int

const (
	KindHTTP Kind = iota
	KindGRPC
	KindStub
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindGRPC:
		return "grpc"
	case KindStub:
		return "test"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// SelectKind maps the configured type name onto a variant, case-insensitively.
// Anything other than "test" or "grpc", including empty, selects HTTP.
func SelectKind(configured string) Kind {
	switch strings.ToLower(configured) {
	case "test":
		return KindStub
	case "grpc":
		return KindGRPC
	default:
		return KindHTTP
	}
}

// Settings carries everything any variant may need.
type Settings struct {
	Type           string
	BaseURL        string
	Username       string
	Password       string
	Timeout        time.Duration
	StubPolicy     string
	StubLatencyMin time.Duration
	StubLatencyMax time.Duration
	Logger         *slog.Logger
}

// Variant holds exactly one concrete transport, chosen by kind.
type Variant struct {
	kind  Kind
	http  *httpbackend.Transport
	grpc  *grpcbackend.Transport
	stub  *stub.Transport
	close func() error
}

var _ ports.Transport = (*Variant)(nil)

// New builds the variant selected by s.Type.
func New(s Settings) (*Variant, error) {
	kind := SelectKind(s.Type)
	v := &Variant{kind: kind, close: func() error { return nil }}
	switch kind {
	case KindHTTP:
		client, err := httpclient.NewClient(s.BaseURL,
			httpclient.WithTimeout(s.Timeout),
			httpclient.WithBasicAuth(s.Username, s.Password),
		)
		if err != nil {
			return nil, err
		}
		v.http = httpbackend.New(client)
	case KindGRPC:
		client, err := grpcclient.Dial(s.BaseURL)
		if err != nil {
			return nil, err
		}
		v.grpc = grpcbackend.New(client.WithTimeout(s.Timeout))
		v.close = client.Close
	case KindStub:
		policy, err := stub.PolicyByName(s.StubPolicy)
		if err != nil {
			return nil, err
		}
		v.stub = stub.New(
			stub.WithPolicy(policy),
			stub.WithLatency(s.StubLatencyMin, s.StubLatencyMax),
			stub.WithLogger(s.Logger),
		)
	default:
		return nil, fmt.Errorf("unsupported transport %s", kind)
	}
	return v, nil
}

// Kind reports the selected variant.
func (v *Variant) Kind() Kind { return v.kind }

func (v *Variant) GetMenu(ctx context.Context, withPrice bool) ([]*domain.Dish, error) {
	switch v.kind {
	case KindHTTP:
		return v.http.GetMenu(ctx, withPrice)
	case KindGRPC:
		return v.grpc.GetMenu(ctx, withPrice)
	case KindStub:
		return v.stub.GetMenu(ctx, withPrice)
	default:
		return nil, fmt.Errorf("unsupported transport %s", v.kind)
	}
}

func (v *Variant) SendOrder(ctx context.Context, order *domain.Order) (ports.DispatchResult, error) {
	switch v.kind {
	case KindHTTP:
		return v.http.SendOrder(ctx, order)
	case KindGRPC:
		return v.grpc.SendOrder(ctx, order)
	case KindStub:
		return v.stub.SendOrder(ctx, order)
	default:
		return ports.DispatchResult{}, fmt.Errorf("unsupported transport %s", v.kind)
	}
}

// Close releases connections held by the variant.
func (v *Variant) Close() error {
	return v.close()
}
