package cart

import (
	"context"
	"errors"
	"testing"

	"farm-shop/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const session = "test-session"

func newTestStore() (*Store, *storage.Memory) {
	kv := storage.NewMemory()
	return NewStore(kv, 5, 5), kv
}

func TestSetQuantityClampsUpToMinimum(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	c := s.SetQuantity(ctx, session, "honey", 3)
	assert.Equal(t, 5, c["honey"])

	c = s.SetQuantity(ctx, session, "honey", 1)
	assert.Equal(t, 5, c["honey"])
}

func TestSetQuantityNegativeRemovesEntry(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.SetQuantity(ctx, session, "honey", 10)
	c := s.SetQuantity(ctx, session, "honey", -5)

	_, present := c["honey"]
	assert.False(t, present, "a negative quantity must never land in the cart")
	assert.Equal(t, 0, c.Kinds())
}

func TestSetQuantityZeroRemovesEntry(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.SetQuantity(ctx, session, "honey", 10)
	c := s.SetQuantity(ctx, session, "honey", 0)

	_, present := c["honey"]
	assert.False(t, present, "zero quantity must remove the entry, never store 0")
	assert.Equal(t, 0, c.Kinds())
}

// Quantities at or above the minimum pass through verbatim, even when they
// are not step multiples; the stepper callers are the only quantity
// producers and always emit aligned values. Pinned so a future change to
// re-align is deliberate.
func TestSetQuantityAboveMinimumPassesThrough(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	c := s.SetQuantity(ctx, session, "honey", 7)
	assert.Equal(t, 7, c["honey"])
}

func TestIncrementStepsFromZeroToMinimum(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	c := s.Increment(ctx, session, "honey")
	assert.Equal(t, 5, c["honey"])

	c = s.Increment(ctx, session, "honey")
	assert.Equal(t, 10, c["honey"])

	c = s.Increment(ctx, session, "honey")
	assert.Equal(t, 15, c["honey"])
}

func TestDecrementFloorsAtZeroAndRemoves(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.SetQuantity(ctx, session, "honey", 10)

	c := s.Decrement(ctx, session, "honey")
	assert.Equal(t, 5, c["honey"])

	c = s.Decrement(ctx, session, "honey")
	_, present := c["honey"]
	assert.False(t, present)

	// Decrementing an absent item stays absent
	c = s.Decrement(ctx, session, "honey")
	_, present = c["honey"]
	assert.False(t, present)
}

func TestStepperPathProducesOnlyValidQuantities(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		c := s.Increment(ctx, session, "honey")
		qty := c["honey"]
		assert.GreaterOrEqual(t, qty, 5)
		assert.Zero(t, qty%5, "stepper quantities must be step multiples")
	}
	for i := 0; i < 10; i++ {
		c := s.Decrement(ctx, session, "honey")
		if qty, ok := c["honey"]; ok {
			assert.GreaterOrEqual(t, qty, 5)
			assert.Zero(t, qty%5)
		}
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.SetQuantity(ctx, session, "honey", 10)
	s.SetQuantity(ctx, session, "hamburger", 5)

	c := s.Clear(ctx, session)
	assert.Equal(t, 0, c.Kinds())
	assert.Equal(t, 0, s.Load(ctx, session).Kinds())
}

func TestCartPersistsAcrossStoreInstances(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	s1 := NewStore(kv, 5, 5)
	s1.SetQuantity(ctx, session, "honey", 10)
	s1.SetFarmTag(ctx, session, "#ABCD1234")

	s2 := NewStore(kv, 5, 5)
	c := s2.Load(ctx, session)
	assert.Equal(t, 10, c["honey"])
	assert.Equal(t, "#ABCD1234", s2.FarmTag(ctx, session))
}

func TestLoadFallsBackToEmptyOnCorruptData(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "cart:"+session, "{not json"))

	s := NewStore(kv, 5, 5)
	c := s.Load(ctx, session)
	assert.Equal(t, 0, c.Kinds())
}

// failingKV accepts reads but rejects every write.
type failingKV struct {
	*storage.Memory
}

func (f failingKV) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestWriteFailureKeepsInMemoryResult(t *testing.T) {
	s := NewStore(failingKV{storage.NewMemory()}, 5, 5)
	ctx := context.Background()

	c := s.SetQuantity(ctx, session, "honey", 10)
	assert.Equal(t, 10, c["honey"], "persistence failure must not roll back the mutation")

	s.SetFarmTag(ctx, session, "#ABCD1234")
}

func TestSessionsAreIndependent(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.SetQuantity(ctx, "a", "honey", 10)
	s.SetQuantity(ctx, "b", "honey", 5)

	assert.Equal(t, 10, s.Load(ctx, "a")["honey"])
	assert.Equal(t, 5, s.Load(ctx, "b")["honey"])
}
