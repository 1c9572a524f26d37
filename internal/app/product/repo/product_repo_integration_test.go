//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/models/m_product"
	"github.com/light-bringer/productcat/internal/pkg/testutil"
)

func TestProductRepo_Contract(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	productRepo := NewProductRepo(client)

	runRepositoryContract(t, storeUnderTest{
		uow:     NewSpannerUnitOfWork(productRepo),
		checker: productRepo,
		reset:   func(t *testing.T) { testutil.CleanSpanner(t, client) },
	})
}

func TestProductRepo_ReadsSeededRows(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	productRepo := NewProductRepo(client)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	used := created.Add(time.Hour)
	testutil.SeedSpanner(t, client,
		&m_product.Data{ID: 10, Name: "Seeded", Price: decimal.RequireFromString("9.99"), CreatedAt: created, UpdatedAt: created},
		&m_product.Data{ID: 11, Name: "Used", Price: decimal.Zero, CreatedAt: created, UpdatedAt: created, UsedAt: &used},
	)
	testutil.AssertRowCount(t, client, m_product.TableName, 2)

	require.NoError(t, productRepo.Ping(ctx))

	got, err := productRepo.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Seeded", got.Name())
	assert.Equal(t, "9.99", got.Price().String())
	assert.Nil(t, got.UsedAt())

	got, err = productRepo.GetByID(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, got.UsedAt())
	assert.True(t, got.UsedAt().Equal(used))

	exists, err := productRepo.CheckExistence(ctx, domain.NewIDSet(10, 11, 12))
	require.NoError(t, err)
	assert.Equal(t, domain.ExistenceResult{10: true, 11: true, 12: false}, exists)
}
