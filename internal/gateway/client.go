package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/vitrineshop/mobile-cart/pkg/errors"
	"github.com/vitrineshop/mobile-cart/pkg/types"
)

const (
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 1024
	currentCartPath            = "carts/current"
	cartItemsPath              = "carts/items"
	clearCartPath              = "carts/clear"
)

// TokenSource supplies the bearer token for the signed-in user. The auth
// service owns the token lifecycle; the gateway only attaches it.
type TokenSource func(ctx context.Context) (string, error)

// Client talks to the server-held cart for the authenticated path.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      TokenSource
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds every request issued by the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithTokenSource attaches bearer tokens to outgoing requests.
func WithTokenSource(source TokenSource) Option {
	return func(c *Client) {
		c.token = source
	}
}

// NewClient builds the cart gateway client against the storefront API.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("gateway base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Fetch returns the current server cart payload.
func (c *Client) Fetch(ctx context.Context) (*types.ServerCart, error) {
	return c.doCart(ctx, http.MethodGet, currentCartPath, nil, "fetch cart")
}

// AddItem puts quantity units of the product into the server cart and
// returns the refreshed payload.
func (c *Client) AddItem(ctx context.Context, productID int64, quantity int) (*types.ServerCart, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.doCart(ctx, http.MethodPost, cartItemsPath, body, "add cart item")
}

// UpdateItem sets the line quantity on the server cart.
func (c *Client) UpdateItem(ctx context.Context, itemID int64, quantity int) (*types.ServerCart, error) {
	body := map[string]any{"quantity": quantity}
	return c.doCart(ctx, http.MethodPut, fmt.Sprintf("%s/%d", cartItemsPath, itemID), body, "update cart item")
}

// RemoveItem drops the line from the server cart.
func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*types.ServerCart, error) {
	return c.doCart(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", cartItemsPath, itemID), nil, "remove cart item")
}

// Clear empties the server cart. The response body shape is not relied on.
func (c *Client) Clear(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, clearCartPath, nil, "clear cart")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(resp, "clear cart")
	}
	return nil
}

func (c *Client) doCart(ctx context.Context, method, path string, body any, action string) (*types.ServerCart, error) {
	resp, err := c.do(ctx, method, path, body, action)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.statusError(resp, action)
	}

	var envelope struct {
		Data *types.ServerCart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("decode %s response", action))
	}
	return envelope.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, action string) (*http.Response, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart gateway not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", action))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", action))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "resolve auth token")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("execute %s request", action))
	}
	return resp, nil
}

func (c *Client) statusError(resp *http.Response, action string) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	detail := strings.TrimSpace(string(msg))

	var envelope types.ErrorEnvelope
	if json.Unmarshal(msg, &envelope) == nil && envelope.Error.Message != "" {
		detail = envelope.Error.Message
	}

	return pkgerrors.Wrap(
		pkgerrors.CodeNetwork,
		fmt.Errorf("status %d: %s", resp.StatusCode, detail),
		fmt.Sprintf("%s failed", action),
	)
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}
