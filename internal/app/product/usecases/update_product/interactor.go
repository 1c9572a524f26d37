package update_product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// Request contains the data to update a product.
// Name and Price replace the stored values; both are required.
type Request struct {
	ID    int64
	Name  string
	Price *decimal.Decimal
}

// Interactor handles the update product use case.
type Interactor struct {
	uow    contracts.UnitOfWork
	logger *slog.Logger
}

// NewInteractor creates a new update product interactor.
func NewInteractor(uow contracts.UnitOfWork, logger *slog.Logger) *Interactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interactor{
		uow:    uow,
		logger: logger,
	}
}

// Execute validates the request and overwrites the stored row.
// Returns an error matching domain.ErrProductNotFound if the id has no row.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	var draft *domain.ProductDraft
	if req != nil {
		draft = &domain.ProductDraft{ID: req.ID, Name: req.Name, Price: req.Price}
	}
	if err := domain.ValidateUpdateDraft(draft); err != nil {
		return nil, err
	}
	product := domain.ReconstructProduct(draft.ID, draft.Name, *draft.Price, time.Time{}, time.Time{}, nil)

	var updated *domain.Product
	err := i.uow.Do(ctx, func(ctx context.Context, repo contracts.ProductRepository) error {
		var err error
		updated, err = repo.Update(ctx, product)
		return err
	})
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", draft.ID, err)
	}

	i.logger.InfoContext(ctx, "product updated", "product_id", updated.ID())
	return updated, nil
}
