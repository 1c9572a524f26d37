package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/pkg/clock"
)

var start = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func newProduct(t *testing.T, name, price string) *domain.Product {
	t.Helper()
	p := decimal.RequireFromString(price)
	product, err := domain.NewProduct(&domain.ProductDraft{Name: name, Price: &p})
	require.NoError(t, err)
	return product
}

func TestMemoryRepo_InsertAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(clock.NewMockClock(start))

	first, err := repo.Insert(ctx, newProduct(t, "Snickers bar", "160"))
	require.NoError(t, err)
	second, err := repo.Insert(ctx, newProduct(t, "Mars", "150"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID())
	assert.Equal(t, int64(2), second.ID())
	assert.Equal(t, start, first.CreatedAt())
	assert.Equal(t, start, first.UpdatedAt())
	assert.Nil(t, first.UsedAt())
	assert.Equal(t, 2, repo.Len())
}

func TestMemoryRepo_Update(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(start)
	repo := NewMemoryRepo(clk)

	created, err := repo.Insert(ctx, newProduct(t, "Snickers bar", "160"))
	require.NoError(t, err)

	t.Run("overwrites name and price", func(t *testing.T) {
		clk.Advance(time.Minute)
		changed := domain.ReconstructProduct(created.ID(), "Snickers", decimal.RequireFromString("170"), time.Time{}, time.Time{}, nil)

		updated, err := repo.Update(ctx, changed)
		require.NoError(t, err)

		assert.Equal(t, "Snickers", updated.Name())
		assert.True(t, decimal.RequireFromString("170").Equal(updated.Price()))
		assert.Equal(t, start, updated.CreatedAt())
		assert.Equal(t, start.Add(time.Minute), updated.UpdatedAt())
	})

	t.Run("unknown id", func(t *testing.T) {
		missing := domain.ReconstructProduct(99, "x", decimal.Zero, time.Time{}, time.Time{}, nil)

		_, err := repo.Update(ctx, missing)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.EqualError(t, err, "product with id 99 not found")
	})
}

func TestMemoryRepo_MarkUsed(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(start)
	repo := NewMemoryRepo(clk)

	created, err := repo.Insert(ctx, newProduct(t, "Snickers bar", "160"))
	require.NoError(t, err)

	clk.Advance(time.Hour)
	used, err := repo.MarkUsed(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, used.UsedAt())
	assert.Equal(t, start.Add(time.Hour), *used.UsedAt())

	stored, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, stored.UsedAt())

	_, err = repo.MarkUsed(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMemoryRepo_DoRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(clock.NewMockClock(start))

	created, err := repo.Insert(ctx, newProduct(t, "Snickers bar", "160"))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.Do(ctx, func(ctx context.Context, tx contracts.ProductRepository) error {
		if _, err := tx.MarkUsed(ctx, created.ID()); err != nil {
			return err
		}
		if _, err := tx.Insert(ctx, newProduct(t, "Mars", "150")); err != nil {
			return err
		}

		// Writes are visible inside the transaction.
		exists, err := tx.CheckExistence(ctx, domain.NewIDSet(1, 2))
		require.NoError(t, err)
		assert.Equal(t, domain.ExistenceResult{1: true, 2: true}, exists)

		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := repo.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Nil(t, stored.UsedAt())
	assert.Equal(t, 1, repo.Len())

	// The id consumed by the rolled back insert is reused.
	next, err := repo.Insert(ctx, newProduct(t, "Twix", "140"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID())
}

func TestMemoryRepo_CheckExistence(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(clock.NewMockClock(start))

	for _, name := range []string{"a", "b", "c"} {
		_, err := repo.Insert(ctx, newProduct(t, name, "1"))
		require.NoError(t, err)
	}

	result, err := repo.CheckExistence(ctx, domain.NewIDSet(3, 1, 7, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.ExistenceResult{1: true, 3: true, 7: false}, result)
}

func TestMemoryRepo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMemoryRepo(clock.NewMockClock(start))
	_, err := repo.Insert(ctx, newProduct(t, "Snickers bar", "160"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
}

func TestMemoryRepo_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(clock.NewRealClock())

	const n = 50
	product := newProduct(t, "bar", "1")
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.Insert(ctx, product)
			if err == nil {
				ids <- p.ID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
