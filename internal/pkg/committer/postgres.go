package committer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgCommitter runs transactions on a pgx pool.
type PgCommitter struct {
	pool *pgxpool.Pool
}

// NewPgCommitter creates a new PgCommitter.
func NewPgCommitter(pool *pgxpool.Pool) *PgCommitter {
	return &PgCommitter{pool: pool}
}

// Transact opens a transaction, passes it to fn and commits if fn returns nil.
// Any error from fn rolls the transaction back and is returned as is. A panic
// in fn also rolls back before it propagates.
func (c *PgCommitter) Transact(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op once the transaction has committed or rolled back.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback failed: %v (original err: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
