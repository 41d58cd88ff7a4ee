// Package cart keeps the local view of the shopper's cart in sync with
// the remote cart collaborator. The server is the source of truth; the
// local line list is a cache refreshed after every mutation, and the
// derived item count is broadcast so badges and summaries share one
// value without re-querying the backend.
package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/retailcloud/storefront-client/observe"
	"github.com/rs/zerolog"
)

var CartSyncErr = errors.New("cart sync failed")

// Line is one cart entry, unique by ProductID within a cart.
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

// Subtotal is the derived line amount; it is never stored.
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// normalizeLines folds the three response shapes the backend is known
// to produce (a bare list, {"items": [...]}, {"cartItems": [...]})
// into one canonical line list. Isolated here so a future stable
// contract only touches this function.
func normalizeLines(raw json.RawMessage) ([]Line, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err == nil {
		return lines, nil
	}

	var wrapped struct {
		Items     []Line `json:"items"`
		CartItems []Line `json:"cartItems"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrap(err, "unexpected cart response shape")
	}
	if wrapped.Items != nil {
		return wrapped.Items, nil
	}
	return wrapped.CartItems, nil
}

func countQuantity(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

// State owns the local cart lines and the observable item count.
type State struct {
	api API
	log zerolog.Logger

	lock  sync.Mutex
	lines []Line
	count *observe.Value[int]
}

// NewState initializes cart state around the remote collaborator.
func NewState(api API, log zerolog.Logger) (*State, error) {
	if api == nil {
		return nil, errors.New("[NewState] cart API is required")
	}
	return &State{
		api:   api,
		log:   log,
		count: observe.NewValue(0),
	}, nil
}

// ItemCount is the broadcast of the current total quantity. It is
// recomputed after every successful mutation or load and reset to 0
// when a load fails, so observers never show a count known to be stale.
func (s *State) ItemCount() *observe.Value[int] {
	return s.count
}

// Lines returns a copy of the current line list.
func (s *State) Lines() []Line {
	s.lock.Lock()
	defer s.lock.Unlock()

	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Total is the derived cart amount.
func (s *State) Total() float64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	total := 0.0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Load replaces local state with the remote cart. On failure the
// previous lines are left untouched but the count broadcast drops to 0.
func (s *State) Load(ctx context.Context, userID string) error {
	raw, err := s.api.Get(ctx, userID)
	if err != nil {
		s.count.Set(0)
		return errors.Wrap(CartSyncErr, err.Error())
	}

	lines, err := normalizeLines(raw)
	if err != nil {
		s.count.Set(0)
		return errors.Wrap(CartSyncErr, err.Error())
	}

	s.lock.Lock()
	s.lines = lines
	s.lock.Unlock()

	s.count.Set(countQuantity(lines))
	return nil
}

// AddItem adds to the remote cart and reloads the full cart: the count
// shown afterwards is server truth, not client arithmetic.
func (s *State) AddItem(ctx context.Context, productID string, qty int, price float64, userID string) error {
	if err := s.api.AddItem(ctx, userID, AddItemRequest{ProductID: productID, Qty: qty, Price: price}); err != nil {
		return errors.Wrap(CartSyncErr, err.Error())
	}
	return s.Load(ctx, userID)
}

// RemoveItem removes remotely, drops the line locally for immediate
// feedback, then refreshes the count from the server to stay
// eventually consistent with other sessions.
func (s *State) RemoveItem(ctx context.Context, productID, userID string) error {
	if err := s.api.RemoveItem(ctx, userID, productID); err != nil {
		return errors.Wrap(CartSyncErr, err.Error())
	}

	s.lock.Lock()
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	s.lines = kept
	s.lock.Unlock()

	s.refreshCount(ctx, userID)
	return nil
}

// Clear empties the cart remotely and locally.
func (s *State) Clear(ctx context.Context, userID string) error {
	if err := s.api.Clear(ctx, userID); err != nil {
		return errors.Wrap(CartSyncErr, err.Error())
	}

	s.lock.Lock()
	s.lines = nil
	s.lock.Unlock()

	s.count.Set(0)
	return nil
}

// refreshCount re-reads the remote cart for its quantity sum only,
// publishing 0 on any failure (same policy as Load).
func (s *State) refreshCount(ctx context.Context, userID string) {
	raw, err := s.api.Get(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("cart count refresh failed")
		s.count.Set(0)
		return
	}

	lines, err := normalizeLines(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("cart count refresh failed")
		s.count.Set(0)
		return
	}

	s.count.Set(countQuantity(lines))
}
