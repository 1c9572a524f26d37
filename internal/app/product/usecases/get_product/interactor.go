package get_product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// Request contains the product ID to retrieve.
type Request struct {
	ID int64
}

// Interactor reads a product and records the read by stamping used_at.
type Interactor struct {
	uow    contracts.UnitOfWork
	logger *slog.Logger
}

// NewInteractor creates a new get product interactor.
func NewInteractor(uow contracts.UnitOfWork, logger *slog.Logger) *Interactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interactor{
		uow:    uow,
		logger: logger,
	}
}

// Execute loads the row and marks it used in one transaction.
// The returned product is the row as it was read, before used_at changed.
// If marking fails nothing is committed and the error is returned.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Product, error) {
	if req == nil || req.ID <= 0 {
		return nil, domain.ErrMissingID
	}

	var snapshot *domain.Product
	err := i.uow.Do(ctx, func(ctx context.Context, repo contracts.ProductRepository) error {
		product, err := repo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if _, err := repo.MarkUsed(ctx, req.ID); err != nil {
			return err
		}
		snapshot = product
		return nil
	})
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", req.ID, err)
	}

	i.logger.DebugContext(ctx, "product read", "product_id", req.ID)
	return snapshot, nil
}
