// Package checkout drives the cart → order → payment pipeline as one
// logical transaction from the client's point of view. Each step talks
// to an independently-failing collaborator; a failed step holds the
// pipeline where it is, and the whole pipeline can be rebuilt from a
// bare order id after a process restart.
package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/retailcloud/storefront-client/observe"
	"github.com/retailcloud/storefront-client/token"
	"github.com/rs/zerolog"
)

var (
	AuthRequiredErr      = errors.New("authentication required")
	OrderNotFoundErr     = errors.New("order not found")
	CheckoutFailedErr    = errors.New("checkout failed")
	PaymentFailedErr     = errors.New("payment failed")
	BusyErr              = errors.New("operation already in progress")
	IllegalTransitionErr = errors.New("illegal checkout stage transition")
)

// Session is the slice of the session store the orchestrator reads.
type Session interface {
	IsLoggedIn() bool
	CurrentUser() *token.Identity
}

// Cart is the slice of cart state the orchestrator clears after a
// successful checkout.
type Cart interface {
	Clear(ctx context.Context, userID string) error
}

// Notifier is the fire-and-forget email side-channel.
type Notifier interface {
	OrderConfirmed(ctx context.Context, email, userID, orderID string, amount float64) error
	PaymentFailed(ctx context.Context, email, userID, orderID string) error
}

// Orchestrator owns the pipeline state for one user session. Exactly
// one remote call is outstanding at a time; overlapping triggers (a
// rapid double-click) are rejected with BusyErr, and the Busy broadcast
// lets the UI disable the triggering control.
type Orchestrator struct {
	orders        OrdersAPI
	payments      PaymentAPI
	session       Session
	cart          Cart
	notifier      Notifier
	fallbackEmail string
	defaultUserID string
	log           zerolog.Logger
	newKey        func() string

	lock     sync.Mutex
	stage    Stage
	order    *Order
	userID   string
	inFlight bool
	busy     *observe.Value[bool]
}

// OrchestratorOption modifies an Orchestrator instance.
type OrchestratorOption func(*Orchestrator)

// WithCart attaches the cart to clear after checkout.
func WithCart(c Cart) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cart = c
	}
}

// WithNotifier attaches the email side-channel.
func WithNotifier(n Notifier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithFallbackEmail sets the address used when no identity is present.
// Deliberately permissive: the demo/guest flow checks out without a
// logged-in email.
func WithFallbackEmail(email string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.fallbackEmail = email
	}
}

// WithDefaultUserID sets the user identifier used when the pipeline is
// entered through LoadOrder, before any Checkout recorded one.
func WithDefaultUserID(userID string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.defaultUserID = userID
	}
}

// WithIdempotencyKeyFunc overrides checkout key generation (testing).
func WithIdempotencyKeyFunc(f func() string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.newKey = f
	}
}

// NewOrchestrator initializes a pipeline orchestrator with its required
// collaborators.
func NewOrchestrator(orders OrdersAPI, payments PaymentAPI, session Session, log zerolog.Logger, options ...OrchestratorOption) (*Orchestrator, error) {
	if orders == nil {
		return nil, errors.New("[NewOrchestrator] orders API is required")
	}
	if payments == nil {
		return nil, errors.New("[NewOrchestrator] payment API is required")
	}
	if session == nil {
		return nil, errors.New("[NewOrchestrator] session is required")
	}

	orchestrator := &Orchestrator{
		orders:   orders,
		payments: payments,
		session:  session,
		log:      log,
		newKey:   uuid.NewString,
		stage:    StageCartLoaded,
		busy:     observe.NewValue(false),
	}
	for _, opt := range options {
		opt(orchestrator)
	}
	return orchestrator, nil
}

// Stage returns the current pipeline position.
func (o *Orchestrator) Stage() Stage {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.stage
}

// Order returns the current order, nil before one is created or loaded.
func (o *Orchestrator) Order() *Order {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.order
}

// Busy broadcasts whether a pipeline call is outstanding.
func (o *Orchestrator) Busy() *observe.Value[bool] {
	return o.busy
}

// begin claims the single outstanding-call slot. Broadcasting happens
// outside the state lock so busy listeners may read the orchestrator.
func (o *Orchestrator) begin() error {
	o.lock.Lock()
	if o.inFlight {
		o.lock.Unlock()
		return BusyErr
	}
	o.inFlight = true
	o.lock.Unlock()

	o.busy.Set(true)
	return nil
}

func (o *Orchestrator) end() {
	o.lock.Lock()
	o.inFlight = false
	o.lock.Unlock()

	o.busy.Set(false)
}

// Checkout turns the user's server-side cart into an order. The caller
// must be authenticated; otherwise AuthRequired is reported before any
// network call. On success the pipeline advances to OrderCreated and
// the local cart is cleared fire-and-forget — navigation to payment
// does not wait for the clear.
func (o *Orchestrator) Checkout(ctx context.Context, userID string) (*Order, error) {
	if !o.session.IsLoggedIn() {
		return nil, errors.Wrap(AuthRequiredErr, "[Orchestrator.Checkout]")
	}
	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.end()

	o.lock.Lock()
	if !CanTransitionTo(o.stage, StageOrderCreated) {
		o.lock.Unlock()
		return nil, errors.Wrapf(IllegalTransitionErr, "[Orchestrator.Checkout] from %s", o.stage)
	}
	o.lock.Unlock()

	email := o.fallbackEmail
	if identity := o.session.CurrentUser(); identity != nil && identity.Email != "" {
		email = identity.Email
	}

	order, err := o.orders.Checkout(ctx, userID, email, o.newKey())
	if err != nil {
		// Pipeline holds at CartLoaded; the cart is untouched.
		return nil, errors.Wrap(CheckoutFailedErr, err.Error())
	}

	o.lock.Lock()
	o.order = order
	o.userID = userID
	o.stage = StageOrderCreated
	o.lock.Unlock()

	o.log.Info().Str("orderId", order.OrderID).Msg("order created")

	if o.cart != nil {
		go func(ctx context.Context) {
			if err := o.cart.Clear(ctx, userID); err != nil {
				o.log.Warn().Err(err).Msg("cart clear after checkout failed")
			}
		}(context.WithoutCancel(ctx))
	}

	return order, nil
}

// LoadOrder rebuilds pipeline state from the server given only an order
// id — the recovery path when the payment page is entered directly
// after a reload or restart. The collaborator has no by-id lookup, so
// the full list is fetched and matched.
func (o *Orchestrator) LoadOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.end()

	o.lock.Lock()
	userID := o.userID
	o.lock.Unlock()
	if userID == "" {
		userID = o.defaultUserID
	}

	orders, err := o.orders.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrapf(err, "[Orchestrator.LoadOrder] %s", orderID)
	}

	for i := range orders {
		if orders[i].OrderID == orderID {
			o.lock.Lock()
			o.order = &orders[i]
			o.userID = userID
			o.stage = StageOrderCreated
			o.lock.Unlock()
			return &orders[i], nil
		}
	}

	return nil, errors.Wrapf(OrderNotFoundErr, "[Orchestrator.LoadOrder] %s", orderID)
}

// Pay settles the given order. The order must be the one previously
// created or loaded. Payment is retry-safe: the collaborator is
// idempotent per order id, so calling Pay again on a settled order
// reports success again. On failure the pipeline holds at OrderCreated
// and a payment-failed email is triggered fire-and-forget.
func (o *Orchestrator) Pay(ctx context.Context, orderID string) (*PaymentResult, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	defer o.end()

	o.lock.Lock()
	if o.order == nil || o.order.OrderID != orderID {
		o.lock.Unlock()
		return nil, errors.Wrapf(OrderNotFoundErr, "[Orchestrator.Pay] %s", orderID)
	}
	if !CanTransitionTo(o.stage, StagePaymentSettled) {
		o.lock.Unlock()
		return nil, errors.Wrapf(IllegalTransitionErr, "[Orchestrator.Pay] from %s", o.stage)
	}
	amount := o.order.TotalAmount
	userID := o.userID
	o.lock.Unlock()

	email := o.fallbackEmail
	if identity := o.session.CurrentUser(); identity != nil && identity.Email != "" {
		email = identity.Email
	}

	result, err := o.payments.Pay(ctx, orderID)
	if err != nil {
		if o.notifier != nil {
			go func(ctx context.Context) {
				_ = o.notifier.PaymentFailed(ctx, email, userID, orderID)
			}(context.WithoutCancel(ctx))
		}
		return nil, errors.Wrap(PaymentFailedErr, err.Error())
	}

	o.lock.Lock()
	o.stage = StagePaymentSettled
	o.lock.Unlock()

	o.log.Info().Str("orderId", orderID).Msg("payment settled")

	if o.notifier != nil {
		go func(ctx context.Context) {
			_ = o.notifier.OrderConfirmed(ctx, email, userID, orderID, amount)
		}(context.WithoutCancel(ctx))
	}

	return result, nil
}
