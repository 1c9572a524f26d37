// Package product composes the product use cases into the service the
// transports call.
package product

import (
	"context"

	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/app/product/queries/check_existence"
	"github.com/light-bringer/productcat/internal/app/product/usecases/create_product"
	"github.com/light-bringer/productcat/internal/app/product/usecases/get_product"
	"github.com/light-bringer/productcat/internal/app/product/usecases/update_product"
)

// Service is the product catalog facade.
type Service struct {
	create *create_product.Interactor
	update *update_product.Interactor
	get    *get_product.Interactor
	exists *check_existence.Query
}

// NewService creates a new Service.
func NewService(
	create *create_product.Interactor,
	update *update_product.Interactor,
	get *get_product.Interactor,
	exists *check_existence.Query,
) *Service {
	return &Service{
		create: create,
		update: update,
		get:    get,
		exists: exists,
	}
}

// Create validates and inserts a product.
func (s *Service) Create(ctx context.Context, req *create_product.Request) (*domain.Product, error) {
	return s.create.Execute(ctx, req)
}

// Update validates and overwrites an existing product.
func (s *Service) Update(ctx context.Context, req *update_product.Request) (*domain.Product, error) {
	return s.update.Execute(ctx, req)
}

// GetByID returns the product as read and marks it used.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.get.Execute(ctx, &get_product.Request{ID: id})
}

// IsProductsExists reports, for every id, whether a product exists.
func (s *Service) IsProductsExists(ctx context.Context, ids []int64) (domain.ExistenceResult, error) {
	return s.exists.Execute(ctx, &check_existence.Request{IDs: ids})
}

// IsProductExists checks a single id through the same cache as the batch form.
func (s *Service) IsProductExists(ctx context.Context, id int64) (bool, error) {
	return s.exists.ExecuteSingle(ctx, id)
}
