package contracts

import (
	"context"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// ExistenceCache stores existence results keyed by the canonical form of an id set.
// All operations are safe for concurrent use.
type ExistenceCache interface {
	// Get returns the result stored for exactly this id set, if it has not expired.
	Get(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, bool, error)

	// Put stores result under the canonical key of ids. Empty results are not stored.
	Put(ctx context.Context, ids domain.IDSet, result domain.ExistenceResult) error
}
