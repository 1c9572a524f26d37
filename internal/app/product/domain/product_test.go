package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestNewProduct(t *testing.T) {
	t.Run("valid product creation", func(t *testing.T) {
		p, err := NewProduct(&ProductDraft{Name: "Snickers bar", Price: price("160.0")})
		require.NoError(t, err)
		assert.Equal(t, "Snickers bar", p.Name())
		assert.True(t, p.Price().Equal(decimal.NewFromInt(160)))
		assert.Zero(t, p.ID())
		assert.Nil(t, p.UsedAt())
	})

	t.Run("invalid draft returns validation error", func(t *testing.T) {
		_, err := NewProduct(&ProductDraft{Name: " ", Price: price("1")})
		assert.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("nil draft returns missing product", func(t *testing.T) {
		_, err := NewProduct(nil)
		assert.ErrorIs(t, err, ErrMissingProduct)
	})
}

func TestProduct_CopyIsIndependent(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	used := now.Add(time.Minute)
	p := ReconstructProduct(7, "Tea", decimal.NewFromInt(3), now, now, &used)

	cp := p.Copy()
	require.NotNil(t, cp.UsedAt())
	assert.Equal(t, used, *cp.UsedAt())
	assert.Equal(t, p, cp)

	*cp.usedAt = now.Add(time.Hour)
	assert.Equal(t, used, *p.UsedAt())
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError(42)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.EqualError(t, err, "product with id 42 not found")
	assert.NotErrorIs(t, err, ErrInvalidInput)
}
