package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/repository/kv"
)

// StorageKey is the local storage key holding the serialized cart.
const StorageKey = "zizi_cart"

// MaxQuantity caps the units of a single line.
const MaxQuantity = math.MaxInt32

const persistTimeout = 5 * time.Second

// Store is the single owner of a visitor's cart. Every mutation is written
// through to local storage; storage failures are logged and swallowed.
type Store struct {
	mu      sync.Mutex
	items   []domain.CartItem
	storage kv.Local
	logger  *zap.Logger

	subs    map[int]func([]domain.CartItem)
	nextSub int
}

// New creates a Store and hydrates it from storage. A missing or corrupt
// payload yields an empty cart.
func New(ctx context.Context, storage kv.Local, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		subs:    make(map[int]func([]domain.CartItem)),
	}
	s.items = s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) []domain.CartItem {
	if s.storage == nil {
		return nil
	}
	raw, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("cart: failed to read stored cart", zap.Error(err))
		}
		return nil
	}
	items, err := Sanitize([]byte(raw))
	if err != nil {
		s.logger.Warn("cart: discarding corrupt stored cart", zap.Error(err))
		return nil
	}
	return items
}

// AddItem merges item into the cart by ID. Quantities below 1 count as 1
// and merged lines saturate at MaxQuantity.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem) {
	item.Quantity = clampQuantity(item.Quantity)
	s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID == item.ID {
				items[i].Quantity = addQuantity(items[i].Quantity, item.Quantity)
				return items
			}
		}
		return append(items, item)
	})
}

// RemoveItem drops the item with id. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		out := items[:0]
		for _, it := range items {
			if it.ID != id {
				out = append(out, it)
			}
		}
		return out
	})
}

// UpdateQuantity sets the quantity of id. Quantities below 1 are rejected
// without changing anything; larger ones are capped at MaxQuantity.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity < 1 {
		return
	}
	quantity = clampQuantity(quantity)
	s.mutate(ctx, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func([]domain.CartItem) []domain.CartItem {
		return nil
	})
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Subtotal is the sum of price times quantity over all lines.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.items)
}

// Count is the total number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Subscribe registers fn to receive the cart after every mutation. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func([]domain.CartItem)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxQuantity:
		return MaxQuantity
	}
	return q
}

// addQuantity sums two quantities in [1, MaxQuantity] without overflowing.
func addQuantity(a, b int) int {
	if a > MaxQuantity-b {
		return MaxQuantity
	}
	return a + b
}

// Subtotal sums price times quantity over items.
func Subtotal(items []domain.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

func (s *Store) mutate(ctx context.Context, fn func([]domain.CartItem) []domain.CartItem) {
	s.mu.Lock()
	s.items = fn(s.items)
	snapshot := cloneItems(s.items)
	subs := make([]func([]domain.CartItem), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.persist(ctx, snapshot)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(cloneItems(snapshot))
	}
}

// persist runs under s.mu so writes reach storage in mutation order. The
// write outlives a cancelled request so storage never lags the live cart.
func (s *Store) persist(ctx context.Context, items []domain.CartItem) {
	if s.storage == nil {
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("cart: failed to encode cart", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.storage.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Error("cart: failed to persist cart", zap.Error(err))
	}
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
