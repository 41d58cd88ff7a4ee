package checkout

import (
	"context"
	"net/url"

	"github.com/retailcloud/storefront-client/internal/httpapi"
)

// OrderStatus is the server-side order state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

// OrderItem is one line of a placed order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// Order is created by the orders collaborator at checkout. The client
// never fabricates an order id.
type Order struct {
	OrderID     string      `json:"orderId"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
}

// OrdersAPI is the remote orders collaborator.
type OrdersAPI interface {
	// Checkout creates an order from the user's current server-side
	// cart. idempotencyKey lets the backend de-duplicate retries.
	Checkout(ctx context.Context, userID, email, idempotencyKey string) (*Order, error)

	// List returns all orders for the user.
	List(ctx context.Context, userID string) ([]Order, error)
}

var _ OrdersAPI = (*OrdersClient)(nil)

// OrdersClient talks to the orders endpoints of the storefront backend.
type OrdersClient struct {
	api *httpapi.Client
}

func NewOrdersClient(api *httpapi.Client) *OrdersClient {
	return &OrdersClient{api: api}
}

type checkoutRequest struct {
	Email string `json:"email"`
}

type checkoutResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

func (c *OrdersClient) Checkout(ctx context.Context, userID, email, idempotencyKey string) (*Order, error) {
	var resp checkoutResponse
	query := url.Values{"userId": []string{userID}}
	err := c.api.Post(ctx, "/orders/checkout", query, checkoutRequest{Email: email}, &resp,
		httpapi.WithHeader("Idempotency-Key", idempotencyKey))
	if err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

type listOrdersResponse struct {
	Items []Order `json:"items"`
}

func (c *OrdersClient) List(ctx context.Context, userID string) ([]Order, error) {
	var resp listOrdersResponse
	query := url.Values{"userId": []string{userID}}
	if err := c.api.Get(ctx, "/orders", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
