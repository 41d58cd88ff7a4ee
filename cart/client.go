package cart

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/retailcloud/storefront-client/internal/httpapi"
)

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID string  `json:"productId"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// API is the remote cart collaborator. Get returns the raw response
// because the backend answers with several shapes; normalization is the
// State's job.
type API interface {
	Get(ctx context.Context, userID string) (json.RawMessage, error)
	AddItem(ctx context.Context, userID string, item AddItemRequest) error
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

var _ API = (*Client)(nil)

// Client talks to the cart endpoints of the storefront backend.
type Client struct {
	api *httpapi.Client
}

func NewClient(api *httpapi.Client) *Client {
	return &Client{api: api}
}

func userQuery(userID string) url.Values {
	return url.Values{"userId": []string{userID}}
}

func (c *Client) Get(ctx context.Context, userID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.api.Get(ctx, "/cart", userQuery(userID), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) AddItem(ctx context.Context, userID string, item AddItemRequest) error {
	return c.api.Post(ctx, "/cart/items", userQuery(userID), item, nil)
}

func (c *Client) RemoveItem(ctx context.Context, userID, productID string) error {
	return c.api.Delete(ctx, "/cart/items/"+url.PathEscape(productID), userQuery(userID), nil)
}

func (c *Client) Clear(ctx context.Context, userID string) error {
	return c.api.Delete(ctx, "/cart", userQuery(userID), nil)
}
