package create_product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// Request contains the data needed to create a product.
// A nil Price means the caller did not send one.
type Request struct {
	Name  string
	Price *decimal.Decimal
}

// Interactor handles the create product use case.
type Interactor struct {
	uow    contracts.UnitOfWork
	logger *slog.Logger
}

// NewInteractor creates a new create product interactor.
func NewInteractor(uow contracts.UnitOfWork, logger *slog.Logger) *Interactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interactor{
		uow:    uow,
		logger: logger,
	}
}

// Execute validates the request and inserts a new row.
// The store assigns the id and timestamps; the persisted row is returned.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	// 1. Validate before touching the store
	var draft *domain.ProductDraft
	if req != nil {
		draft = &domain.ProductDraft{Name: req.Name, Price: req.Price}
	}
	product, err := domain.NewProduct(draft)
	if err != nil {
		return nil, err
	}

	// 2. Insert in its own transaction
	var created *domain.Product
	err = i.uow.Do(ctx, func(ctx context.Context, repo contracts.ProductRepository) error {
		var err error
		created, err = repo.Insert(ctx, product)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	i.logger.InfoContext(ctx, "product created", "product_id", created.ID())
	return created, nil
}
