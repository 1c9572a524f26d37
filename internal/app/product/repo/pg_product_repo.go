package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/models/m_product"
	"github.com/light-bringer/productcat/internal/pkg/committer"
	"github.com/light-bringer/productcat/internal/pkg/query"
)

// pgQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgProductRepo implements ProductRepository for PostgreSQL.
type PgProductRepo struct {
	pool *pgxpool.Pool
	db   pgQuerier
}

// NewPgProductRepo creates a repo that runs each statement on the pool.
func NewPgProductRepo(pool *pgxpool.Pool) *PgProductRepo {
	return &PgProductRepo{pool: pool, db: pool}
}

func (r *PgProductRepo) withTx(tx pgx.Tx) *PgProductRepo {
	return &PgProductRepo{pool: r.pool, db: tx}
}

// Insert adds a product row and returns it with the generated id.
func (r *PgProductRepo) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s",
		m_product.TableName, m_product.Name, m_product.Price, returning,
	)

	data, err := r.queryOne(ctx, sql, product.Name(), product.Price())
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return data.ToDomain(), nil
}

// Update overwrites name and price and refreshes updated_at.
func (r *PgProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	sql := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3, %s = CURRENT_TIMESTAMP WHERE %s = $1 RETURNING %s",
		m_product.TableName, m_product.Name, m_product.Price, m_product.UpdatedAt, m_product.ID, returning,
	)

	data, err := r.queryOne(ctx, sql, product.ID(), product.Name(), product.Price())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError(product.ID())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", product.ID(), err)
	}
	return data.ToDomain(), nil
}

// GetByID retrieves a product by ID. Inside a transaction the row is locked
// until commit so a following MarkUsed sees the same snapshot.
func (r *PgProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	b := query.From(m_product.TableName).
		Select(m_product.Columns...).
		Where(query.Eq(m_product.ID, id))
	if _, inTx := r.db.(pgx.Tx); inTx {
		b = b.ForUpdate()
	}
	sql, args := b.BuildPositional()

	data, err := r.queryOne(ctx, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product %d: %w", id, err)
	}
	return data.ToDomain(), nil
}

// MarkUsed stamps used_at with the current time.
func (r *PgProductRepo) MarkUsed(ctx context.Context, id int64) (*domain.Product, error) {
	sql := fmt.Sprintf(
		"UPDATE %s SET %s = CURRENT_TIMESTAMP WHERE %s = $1 RETURNING %s",
		m_product.TableName, m_product.UsedAt, m_product.ID, returning,
	)

	data, err := r.queryOne(ctx, sql, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark product %d used: %w", id, err)
	}
	return data.ToDomain(), nil
}

// CheckExistence reports which of ids have a row, in one query.
func (r *PgProductRepo) CheckExistence(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, error) {
	result := domain.NewExistenceResult(ids)
	if ids.IsEmpty() {
		return result, nil
	}

	sql, args := query.From(m_product.TableName).
		Select(m_product.ID).
		Where(query.In(m_product.ID, ids.Slice())).
		BuildPositional()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}

	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

// Ping verifies the pool can reach the database.
func (r *PgProductRepo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (r *PgProductRepo) queryOne(ctx context.Context, sql string, args ...any) (*m_product.Data, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[m_product.Data])
}

// PgUnitOfWork opens a pgx transaction per Do call.
type PgUnitOfWork struct {
	repo      *PgProductRepo
	committer *committer.PgCommitter
}

// NewPgUnitOfWork creates a unit of work over repo's pool.
func NewPgUnitOfWork(repo *PgProductRepo) *PgUnitOfWork {
	return &PgUnitOfWork{
		repo:      repo,
		committer: committer.NewPgCommitter(repo.pool),
	}
}

// Do passes a repository bound to a new transaction to fn and commits if fn succeeds.
func (u *PgUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repo contracts.ProductRepository) error) error {
	return u.committer.Transact(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, u.repo.withTx(tx))
	})
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
