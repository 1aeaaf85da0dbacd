package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrUndecodableResponse is returned when the reply body is not an envelope.
var ErrUndecodableResponse = errors.New("failed to deserialize response")

// StatusError reports a non-2xx reply.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response status code does not indicate success: %s", e.Status)
}

// Client posts command envelopes to the backend's single endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBasicAuth sends credentials when both username and password are set.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout bounds each exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient instantiates the backend client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// GetMenu requests the catalog. The envelope is returned as-is; callers decide
// how to treat Success=false.
func (c *Client) GetMenu(ctx context.Context, withPrice bool) (*Response, *MenuData, error) {
	resp, err := c.Do(ctx, CommandGetMenu, GetMenuParameters{WithPrice: withPrice})
	if err != nil {
		return nil, nil, err
	}
	var data MenuData
	if len(resp.Data) > 0 && !bytes.Equal(resp.Data, []byte("null")) {
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return nil, nil, fmt.Errorf("%w: menu data: %w", ErrUndecodableResponse, err)
		}
	}
	return resp, &data, nil
}

// SendOrder posts an order.
func (c *Client) SendOrder(ctx context.Context, params SendOrderParameters) (*Response, error) {
	return c.Do(ctx, CommandSendOrder, params)
}

// Do posts one command and decodes the reply envelope.
func (c *Client) Do(ctx context.Context, command string, params any) (*Response, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("backend client not configured")
	}
	body, err := json.Marshal(Request{Command: command, CommandParameters: params})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", command, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", command, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, httpResp.Body)
		return nil, &StatusError{StatusCode: httpResp.StatusCode, Status: httpResp.Status}
	}
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", command, err)
	}
	var envelope *Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodableResponse, err)
	}
	if envelope == nil {
		return nil, ErrUndecodableResponse
	}
	return envelope, nil
}
