package create_product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/app/product/fakes"
	"github.com/light-bringer/productcat/internal/pkg/clock"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := fakes.NewStore(clock.NewMockClock(now))
	interactor := NewInteractor(store, nil)

	created, err := interactor.Execute(ctx, &Request{Name: "Snickers bar", Price: price("160.0")})
	require.NoError(t, err)

	assert.NotZero(t, created.ID())
	assert.Equal(t, "Snickers bar", created.Name())
	assert.True(t, created.Price().Equal(decimal.NewFromInt(160)))
	assert.Equal(t, now, created.CreatedAt())
	assert.Equal(t, created.CreatedAt(), created.UpdatedAt())
	assert.Nil(t, created.UsedAt())
	assert.Equal(t, 1, store.Calls(fakes.OpInsert))
}

func TestInteractor_ZeroPriceAllowed(t *testing.T) {
	store := fakes.NewStore(clock.NewRealClock())
	interactor := NewInteractor(store, nil)

	created, err := interactor.Execute(context.Background(), &Request{Name: "Free sample", Price: price("0")})
	require.NoError(t, err)
	assert.True(t, created.Price().IsZero())
}

func TestInteractor_ValidationFailsBeforeStore(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
		wantMsg string
	}{
		{"nil request", nil, domain.ErrMissingProduct, "product information is required"},
		{"empty name", &Request{Name: "", Price: price("1")}, domain.ErrMissingName, "product name is required"},
		{"blank name", &Request{Name: "   ", Price: price("1")}, domain.ErrMissingName, "product name is required"},
		{"missing price", &Request{Name: "Mars"}, domain.ErrMissingPrice, "product price is required"},
		{"negative price", &Request{Name: "Mars", Price: price("-0.01")}, domain.ErrNegativePrice, "product price cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fakes.NewStore(clock.NewRealClock())
			interactor := NewInteractor(store, nil)

			_, err := interactor.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.EqualError(t, err, tt.wantMsg)
			assert.Zero(t, store.Calls(fakes.OpTransaction))
		})
	}
}

func TestInteractor_StoreFailure(t *testing.T) {
	store := fakes.NewStore(clock.NewRealClock())
	boom := errors.New("connection refused")
	store.Fail(fakes.OpInsert, boom)
	interactor := NewInteractor(store, nil)

	_, err := interactor.Execute(context.Background(), &Request{Name: "Mars", Price: price("1")})
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}
