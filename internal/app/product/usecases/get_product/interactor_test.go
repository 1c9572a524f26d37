package get_product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/app/product/fakes"
	"github.com/light-bringer/productcat/internal/pkg/clock"
)

func seed(t *testing.T, store *fakes.Store) *domain.Product {
	t.Helper()
	p := decimal.RequireFromString("160.0")
	product, err := domain.NewProduct(&domain.ProductDraft{Name: "Snickers bar", Price: &p})
	require.NoError(t, err)

	var created *domain.Product
	err = store.Do(context.Background(), func(ctx context.Context, repo contracts.ProductRepository) error {
		created, err = repo.Insert(ctx, product)
		return err
	})
	require.NoError(t, err)
	return created
}

func TestInteractor_ReturnsPreUseSnapshot(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(start)
	store := fakes.NewStore(clk)
	created := seed(t, store)
	interactor := NewInteractor(store, nil)

	clk.Advance(time.Minute)
	got, err := interactor.Execute(ctx, &Request{ID: created.ID()})
	require.NoError(t, err)

	assert.Equal(t, created.ID(), got.ID())
	assert.Equal(t, "Snickers bar", got.Name())
	assert.True(t, got.Price().Equal(decimal.NewFromInt(160)))
	assert.Nil(t, got.UsedAt(), "returned value reflects the row before marking")

	stored, err := store.Peek(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, stored.UsedAt())
	assert.Equal(t, start.Add(time.Minute), *stored.UsedAt())

	assert.Equal(t, 1, store.Calls(fakes.OpGetByID))
	assert.Equal(t, 1, store.Calls(fakes.OpMarkUsed))
}

func TestInteractor_SecondReadSeesFirstMark(t *testing.T) {
	ctx := context.Background()
	store := fakes.NewStore(clock.NewRealClock())
	created := seed(t, store)
	interactor := NewInteractor(store, nil)

	_, err := interactor.Execute(ctx, &Request{ID: created.ID()})
	require.NoError(t, err)

	second, err := interactor.Execute(ctx, &Request{ID: created.ID()})
	require.NoError(t, err)
	assert.NotNil(t, second.UsedAt())
}

func TestInteractor_NotFound(t *testing.T) {
	store := fakes.NewStore(clock.NewRealClock())
	interactor := NewInteractor(store, nil)

	_, err := interactor.Execute(context.Background(), &Request{ID: 77})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.EqualError(t, err, "product with id 77 not found")
	assert.Zero(t, store.Calls(fakes.OpMarkUsed))
}

func TestInteractor_MarkFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := fakes.NewStore(clock.NewRealClock())
	created := seed(t, store)
	boom := errors.New("write failed")
	store.Fail(fakes.OpMarkUsed, boom)
	interactor := NewInteractor(store, nil)

	_, err := interactor.Execute(ctx, &Request{ID: created.ID()})
	require.ErrorIs(t, err, boom)

	stored, err := store.Peek(ctx, created.ID())
	require.NoError(t, err)
	assert.Nil(t, stored.UsedAt())
}

func TestInteractor_InvalidID(t *testing.T) {
	store := fakes.NewStore(clock.NewRealClock())
	interactor := NewInteractor(store, nil)

	for _, req := range []*Request{nil, {ID: 0}, {ID: -3}} {
		_, err := interactor.Execute(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrMissingID)
	}
	assert.Zero(t, store.Calls(fakes.OpTransaction))
}
