// Package notify triggers the transactional email side-channel. Every
// send is fire-and-forget from the core flows' perspective: failures
// are logged and returned, but no caller treats them as fatal.
package notify

import (
	"context"

	"github.com/retailcloud/storefront-client/internal/httpapi"
	"github.com/rs/zerolog"
)

// Client talks to the notification endpoints of the storefront backend.
type Client struct {
	api *httpapi.Client
	log zerolog.Logger
}

func NewClient(api *httpapi.Client, log zerolog.Logger) *Client {
	return &Client{api: api, log: log}
}

type orderConfirmedRequest struct {
	Email    string  `json:"email"`
	UserID   string  `json:"userId"`
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// OrderConfirmed triggers the order confirmation email.
func (c *Client) OrderConfirmed(ctx context.Context, email, userID, orderID string, amount float64) error {
	err := c.api.Post(ctx, "/notifications/order-confirmed", nil, orderConfirmedRequest{
		Email:    email,
		UserID:   userID,
		OrderID:  orderID,
		Amount:   amount,
		Currency: "USD",
	}, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("orderId", orderID).Msg("order confirmation email failed")
	}
	return err
}

type userRegisteredRequest struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// UserRegistered triggers the welcome email for a new account.
func (c *Client) UserRegistered(ctx context.Context, email, userID string) error {
	err := c.api.Post(ctx, "/notifications/user-registered", nil, userRegisteredRequest{Email: email, UserID: userID}, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("email", email).Msg("welcome email failed")
	}
	return err
}

type paymentFailedRequest struct {
	Email   string `json:"email"`
	UserID  string `json:"userId"`
	OrderID string `json:"orderId"`
}

// PaymentFailed triggers the payment failure email.
func (c *Client) PaymentFailed(ctx context.Context, email, userID, orderID string) error {
	err := c.api.Post(ctx, "/notifications/payment-failed", nil, paymentFailedRequest{Email: email, UserID: userID, OrderID: orderID}, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("orderId", orderID).Msg("payment-failed email failed")
	}
	return err
}
