package backend

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the backend service.
type Client struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	timeout time.Duration
}

// Dial connects to address. http:// and bare host:port use plaintext;
// https:// uses TLS. Extra options are appended.
func Dial(address string, opts ...grpc.DialOption) (*Client, error) {
	target, secure, err := parseTarget(address)
	if err != nil {
		return nil, err
	}
	creds := insecure.NewCredentials()
	if secure {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts...)
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("create grpc client for %s: %w", target, err)
	}
	return &Client{conn: conn, closer: conn.Close}, nil
}

// NewClient wraps an existing connection. The caller owns its lifecycle.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// WithTimeout bounds each call. Zero or negative leaves calls bounded only
// by the caller's context.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// GetMenu calls the unary GetMenu RPC.
func (c *Client) GetMenu(ctx context.Context, withPrice bool) (MenuResponse, error) {
	if c == nil || c.conn == nil {
		return MenuResponse{}, errors.New("grpc backend client not configured")
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	reply := newMessage(contract.menuResponse)
	if err := c.conn.Invoke(ctx, GetMenuFullMethod, wrapperspb.Bool(withPrice), reply); err != nil {
		return MenuResponse{}, err
	}
	return decodeMenuResponse(reply), nil
}

// SendOrder calls the unary SendOrder RPC.
func (c *Client) SendOrder(ctx context.Context, order Order) (OrderResponse, error) {
	if c == nil || c.conn == nil {
		return OrderResponse{}, errors.New("grpc backend client not configured")
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	reply := newMessage(contract.orderResponse)
	if err := c.conn.Invoke(ctx, SendOrderFullMethod, encodeOrder(order), reply); err != nil {
		return OrderResponse{}, err
	}
	return decodeOrderResponse(reply), nil
}

// Close releases the connection when the client dialed it.
func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}

func parseTarget(address string) (string, bool, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", false, errors.New("grpc backend address is required")
	}
	if !strings.Contains(address, "://") {
		return address, false, nil
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", false, fmt.Errorf("parse grpc backend address: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		// resolver schemes such as dns:/// or passthrough:/// go to grpc untouched
		return address, false, nil
	}
}
