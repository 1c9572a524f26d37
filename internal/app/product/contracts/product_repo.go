package contracts

import (
	"context"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// ProductRepository defines the interface for product persistence.
// Implementations bound to a UnitOfWork run every call inside that transaction.
type ProductRepository interface {
	// Insert stores a new row, ignoring any id or timestamps on product,
	// and returns the row as persisted.
	Insert(ctx context.Context, product *domain.Product) (*domain.Product, error)

	// Update overwrites name and price of an existing row and refreshes updated_at.
	// Returns an error matching domain.ErrProductNotFound if no row has the id.
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)

	// GetByID returns the row with the given id or domain.ErrProductNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// MarkUsed sets used_at to the current time and returns the updated row.
	MarkUsed(ctx context.Context, id int64) (*domain.Product, error)

	ExistenceChecker
}

// ExistenceChecker answers batch existence lookups.
type ExistenceChecker interface {
	// CheckExistence returns an entry for every id in ids; ids without a row map to false.
	CheckExistence(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, error)
}

// UnitOfWork runs a function inside a single store transaction.
// If fn returns an error nothing it did is committed.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repo ProductRepository) error) error
}

// Pinger reports backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
