package product

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/app/product/fakes"
	"github.com/light-bringer/productcat/internal/app/product/queries/check_existence"
	"github.com/light-bringer/productcat/internal/app/product/usecases/create_product"
	"github.com/light-bringer/productcat/internal/app/product/usecases/get_product"
	"github.com/light-bringer/productcat/internal/app/product/usecases/update_product"
	"github.com/light-bringer/productcat/internal/cache"
	"github.com/light-bringer/productcat/internal/pkg/clock"
)

func newService(store *fakes.Store) *Service {
	return NewService(
		create_product.NewInteractor(store, nil),
		update_product.NewInteractor(store, nil),
		get_product.NewInteractor(store, nil),
		check_existence.NewQuery(store, cache.NewMemory(100, 30*time.Second, nil), nil, nil),
	)
}

func TestService_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	store := fakes.NewStore(clock.NewMockClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)))
	svc := newService(store)

	p := decimal.RequireFromString("160.0")
	created, err := svc.Create(ctx, &create_product.Request{Name: "Snickers bar", Price: &p})
	require.NoError(t, err)
	assert.NotZero(t, created.ID())
	assert.Equal(t, created.CreatedAt(), created.UpdatedAt())
	assert.Nil(t, created.UsedAt())

	got, err := svc.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.Name(), got.Name())
	assert.True(t, created.Price().Equal(got.Price()))
	assert.Equal(t, created.CreatedAt(), got.CreatedAt())
	assert.Nil(t, got.UsedAt())

	stored, err := store.Peek(ctx, created.ID())
	require.NoError(t, err)
	assert.NotNil(t, stored.UsedAt())
}

func TestService_Existence(t *testing.T) {
	ctx := context.Background()
	store := fakes.NewStore(clock.NewRealClock())
	svc := newService(store)

	p := decimal.NewFromInt(5)
	created, err := svc.Create(ctx, &create_product.Request{Name: "Mars", Price: &p})
	require.NoError(t, err)

	exists, err := svc.IsProductExists(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.IsProductExists(ctx, created.ID()+1000)
	require.NoError(t, err)
	assert.False(t, exists)

	batch, err := svc.IsProductsExists(ctx, []int64{created.ID() + 1000, created.ID()})
	require.NoError(t, err)
	assert.Equal(t, domain.ExistenceResult{created.ID(): true, created.ID() + 1000: false}, batch)

	_, err = svc.IsProductsExists(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestService_UpdateMissing(t *testing.T) {
	store := fakes.NewStore(clock.NewRealClock())
	svc := newService(store)

	p := decimal.NewFromInt(5)
	_, err := svc.Update(context.Background(), &update_product.Request{ID: 9, Name: "Mars", Price: &p})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
