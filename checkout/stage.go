package checkout

// Stage is the orchestrator's position in the checkout pipeline.
type Stage string

const (
	StageCartLoaded     Stage = "CART_LOADED"
	StageOrderCreated   Stage = "ORDER_CREATED"
	StagePaymentSettled Stage = "PAYMENT_SETTLED"
)

// String representation (for logging)
func (s Stage) String() string {
	return string(s)
}

// stageTransitions encodes the legal pipeline edges. OrderCreated
// self-loops because a new checkout replaces a pending unpaid order;
// PaymentSettled self-loops because the payment collaborator is
// idempotent per order, so retrying a settled order is safe. A settled
// pipeline may also start over with a fresh order.
var stageTransitions = map[Stage][]Stage{
	StageCartLoaded:     {StageOrderCreated},
	StageOrderCreated:   {StageOrderCreated, StagePaymentSettled},
	StagePaymentSettled: {StagePaymentSettled, StageOrderCreated},
}

// CanTransitionTo reports whether moving from one stage to another is a
// legal pipeline edge.
func CanTransitionTo(from, to Stage) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
