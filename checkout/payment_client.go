package checkout

import (
	"context"

	"github.com/retailcloud/storefront-client/internal/httpapi"
)

// PaymentOutcome is the client-declared payment result. This client
// only ever submits SUCCESS; the collaborator owns real failure
// semantics (cash-on-delivery style stub today).
type PaymentOutcome string

const (
	PaymentSuccess PaymentOutcome = "SUCCESS"
	PaymentFailed  PaymentOutcome = "FAILED"
)

// PaymentResult is the collaborator's settlement report.
type PaymentResult struct {
	Message string `json:"message"`
	Payment struct {
		PaymentID string  `json:"paymentId"`
		OrderID   string  `json:"orderId"`
		UserID    string  `json:"userId"`
		Amount    float64 `json:"amount"`
		Currency  string  `json:"currency"`
		Status    string  `json:"status"`
		Provider  string  `json:"provider"`
	} `json:"payment"`
	OrderUpdate struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	} `json:"orderUpdate"`
}

// PaymentAPI is the remote payment collaborator, idempotent per order.
type PaymentAPI interface {
	Pay(ctx context.Context, orderID string) (*PaymentResult, error)
}

var _ PaymentAPI = (*PaymentClient)(nil)

// PaymentClient talks to the payments endpoint of the storefront
// backend.
type PaymentClient struct {
	api *httpapi.Client
}

func NewPaymentClient(api *httpapi.Client) *PaymentClient {
	return &PaymentClient{api: api}
}

type paymentRequest struct {
	OrderID string         `json:"orderId"`
	Status  PaymentOutcome `json:"status"`
}

func (c *PaymentClient) Pay(ctx context.Context, orderID string) (*PaymentResult, error) {
	var result PaymentResult
	if err := c.api.Post(ctx, "/payments", nil, paymentRequest{OrderID: orderID, Status: PaymentSuccess}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
