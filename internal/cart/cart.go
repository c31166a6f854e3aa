// Package cart holds the buyer's item->quantity mapping and the quantity
// stepping rules. The in-game drop-off mechanic only permits fixed batch
// sizes, so the rules are enforced here at the store boundary rather than
// trusted to the front ends.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"farm-shop/internal/storage"
	"farm-shop/internal/util"

	"go.uber.org/zap"
)

// Cart maps item IDs to quantities. Every present entry is strictly
// positive; an item reduced to zero is removed, never stored as zero.
type Cart map[string]int

// Kinds returns the number of distinct items in the cart.
func (c Cart) Kinds() int {
	return len(c)
}

// Store applies quantity rules to per-session carts and persists every
// mutation. Persistence is best-effort: a write failure is logged and the
// mutated cart is still returned, since the current response is the source
// of truth for the session.
type Store struct {
	kv     storage.KV
	step   int
	minQty int
	logger *zap.Logger
}

// NewStore creates a cart store over the given session storage.
func NewStore(kv storage.KV, step, minQty int) *Store {
	return &Store{
		kv:     kv,
		step:   step,
		minQty: minQty,
		logger: util.NamedLogger("cart"),
	}
}

// Step returns the configured quantity step.
func (s *Store) Step() int {
	return s.step
}

// MinQty returns the smallest nonzero quantity permitted.
func (s *Store) MinQty() int {
	return s.minQty
}

func cartKey(session string) string {
	return fmt.Sprintf("cart:%s", session)
}

func farmTagKey(session string) string {
	return fmt.Sprintf("farm_tag:%s", session)
}

// Load reads the session's cart, falling back to an empty cart when the
// persisted entry is absent or corrupt. The fallback is silent: stale local
// state is never worth an error to the buyer.
func (s *Store) Load(ctx context.Context, session string) Cart {
	raw, err := s.kv.Get(ctx, cartKey(session))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Failed to read persisted cart, starting empty",
				zap.String("session", session), zap.Error(err))
		}
		return Cart{}
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil || c == nil {
		s.logger.Warn("Persisted cart is corrupt, starting empty",
			zap.String("session", session))
		return Cart{}
	}
	return c
}

// SetQuantity applies the quantity rule and persists: anything <= 0 removes
// the entry, 0<qty<min clamps up to min, anything else is stored verbatim.
// Step alignment is the stepper caller's responsibility; a quantity >= min
// that is not a step multiple passes through unchanged.
func (s *Store) SetQuantity(ctx context.Context, session, itemID string, qty int) Cart {
	if qty < 0 {
		qty = 0
	}
	if qty > 0 && qty < s.minQty {
		qty = s.minQty
	}

	c := s.Load(ctx, session)
	if qty == 0 {
		delete(c, itemID)
	} else {
		c[itemID] = qty
	}

	util.CartMutationsTotal.WithLabelValues("set").Inc()
	s.persist(ctx, session, c)
	return c
}

// Increment adds one step, starting at the minimum from zero.
func (s *Store) Increment(ctx context.Context, session, itemID string) Cart {
	c := s.Load(ctx, session)
	next := c[itemID] + s.step
	if c[itemID] == 0 {
		next = s.minQty
	}

	c[itemID] = next
	util.CartMutationsTotal.WithLabelValues("increment").Inc()
	s.persist(ctx, session, c)
	return c
}

// Decrement subtracts one step, floored at zero. Reaching zero removes the
// entry.
func (s *Store) Decrement(ctx context.Context, session, itemID string) Cart {
	c := s.Load(ctx, session)
	next := c[itemID] - s.step
	if next <= 0 {
		delete(c, itemID)
	} else {
		c[itemID] = next
	}

	util.CartMutationsTotal.WithLabelValues("decrement").Inc()
	s.persist(ctx, session, c)
	return c
}

// Clear empties the session's cart.
func (s *Store) Clear(ctx context.Context, session string) Cart {
	c := Cart{}
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	s.persist(ctx, session, c)
	return c
}

// FarmTag reads the session's farm tag, empty when unset or unreadable.
func (s *Store) FarmTag(ctx context.Context, session string) string {
	tag, err := s.kv.Get(ctx, farmTagKey(session))
	if err != nil {
		return ""
	}
	return tag
}

// SetFarmTag stores the raw tag string, best-effort.
func (s *Store) SetFarmTag(ctx context.Context, session, tag string) {
	util.FarmTagUpdatesTotal.Inc()
	if err := s.kv.Set(ctx, farmTagKey(session), tag); err != nil {
		util.CartPersistFailuresTotal.Inc()
		s.logger.Warn("Failed to persist farm tag",
			zap.String("session", session), zap.Error(err))
	}
}

func (s *Store) persist(ctx context.Context, session string, c Cart) {
	raw, err := json.Marshal(c)
	if err != nil {
		util.CartPersistFailuresTotal.Inc()
		s.logger.Warn("Failed to encode cart", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, cartKey(session), string(raw)); err != nil {
		util.CartPersistFailuresTotal.Inc()
		s.logger.Warn("Failed to persist cart",
			zap.String("session", session), zap.Error(err))
	}
}
