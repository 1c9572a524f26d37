package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

type countingRecorder struct {
	hits, misses, errors int
}

func (r *countingRecorder) CacheHit(string)   { r.hits++ }
func (r *countingRecorder) CacheMiss(string)  { r.misses++ }
func (r *countingRecorder) CacheError(string) { r.errors++ }

func TestMemory_PutAndGet(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	c := NewMemory(100, time.Minute, rec)

	ids := domain.NewIDSet(1, 2, 3)
	require.NoError(t, c.Put(ctx, ids, domain.ExistenceResult{1: true, 2: true, 3: false}))

	got, ok, err := c.Get(ctx, ids)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.ExistenceResult{1: true, 2: true, 3: false}, got)
	assert.Equal(t, 1, rec.hits)
}

func TestMemory_KeyIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(100, time.Minute, nil)

	require.NoError(t, c.Put(ctx, domain.NewIDSet(3, 1, 2), domain.ExistenceResult{1: true, 2: false, 3: true}))

	got, ok, err := c.Get(ctx, domain.NewIDSet(2, 3, 1, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.ExistenceResult{1: true, 2: false, 3: true}, got)
	assert.Equal(t, 1, c.Len())
}

func TestMemory_Miss(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	c := NewMemory(100, time.Minute, rec)

	require.NoError(t, c.Put(ctx, domain.NewIDSet(1, 2), domain.ExistenceResult{1: true, 2: true}))

	// A subset is a different key.
	_, ok, err := c.Get(ctx, domain.NewIDSet(1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.misses)
}

func TestMemory_PartialEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	c := NewMemory(100, time.Minute, rec)
	ids := domain.NewIDSet(1, 2)

	require.NoError(t, c.Put(ctx, ids, domain.ExistenceResult{1: true}))

	got, ok, err := c.Get(ctx, ids)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, rec.hits)
	assert.Equal(t, 1, rec.misses)
}

func TestMemory_EmptyResultNotStored(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(100, time.Minute, nil)

	require.NoError(t, c.Put(ctx, domain.NewIDSet(1), domain.ExistenceResult{}))
	require.NoError(t, c.Put(ctx, domain.NewIDSet(2), nil))

	assert.Equal(t, 0, c.Len())
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(100, time.Minute, nil)
	ids := domain.NewIDSet(1)

	stored := domain.ExistenceResult{1: true}
	require.NoError(t, c.Put(ctx, ids, stored))
	stored[1] = false

	got, _, _ := c.Get(ctx, ids)
	got[1] = false

	again, ok, err := c.Get(ctx, ids)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, again[1])
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(100, 250*time.Millisecond, nil)
	ids := domain.NewIDSet(7)

	require.NoError(t, c.Put(ctx, ids, domain.ExistenceResult{7: false}))

	_, ok, _ := c.Get(ctx, ids)
	require.True(t, ok)

	time.Sleep(750 * time.Millisecond)

	_, ok, err := c.Get(ctx, ids)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, time.Minute, nil)

	require.NoError(t, c.Put(ctx, domain.NewIDSet(1), domain.ExistenceResult{1: true}))
	require.NoError(t, c.Put(ctx, domain.NewIDSet(2), domain.ExistenceResult{2: true}))
	require.NoError(t, c.Put(ctx, domain.NewIDSet(3), domain.ExistenceResult{3: true}))

	_, ok, _ := c.Get(ctx, domain.NewIDSet(1))
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, domain.NewIDSet(3))
	assert.True(t, ok)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	c := NewNop()

	require.NoError(t, c.Put(ctx, domain.NewIDSet(1), domain.ExistenceResult{1: true}))
	got, ok, err := c.Get(ctx, domain.NewIDSet(1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}
