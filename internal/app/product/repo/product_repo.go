package repo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/models/m_product"
	"github.com/light-bringer/productcat/internal/pkg/committer"
	"github.com/light-bringer/productcat/internal/pkg/query"
)

// returning is the THEN RETURN column list shared by every DML statement.
var returning = joinColumns(m_product.Columns)

// ProductRepo implements ProductRepository for Spanner.
// A repo built by NewProductRepo reads with single-use transactions and
// cannot write; writes go through a repo bound to a read-write transaction
// by the Spanner unit of work.
type ProductRepo struct {
	client *spanner.Client
	txn    *spanner.ReadWriteTransaction
	model  *m_product.Model
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client) *ProductRepo {
	return &ProductRepo{
		client: client,
		model:  m_product.NewModel(),
	}
}

// withTxn returns a copy of the repo bound to txn.
func (r *ProductRepo) withTxn(txn *spanner.ReadWriteTransaction) *ProductRepo {
	return &ProductRepo{
		client: r.client,
		txn:    txn,
		model:  r.model,
	}
}

// Insert adds a product row. The id comes from the products_seq sequence.
func (r *ProductRepo) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf(
			"INSERT INTO %s (%s, %s, %s, %s) VALUES (@name, @price, CURRENT_TIMESTAMP(), CURRENT_TIMESTAMP()) THEN RETURN %s",
			m_product.TableName, m_product.Name, m_product.Price, m_product.CreatedAt, m_product.UpdatedAt, returning,
		),
		Params: map[string]interface{}{
			"name":  product.Name(),
			"price": m_product.PriceToNumeric(product.Price()),
		},
	}

	data, err := r.dmlReturning(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	if data == nil {
		return nil, errors.New("failed to insert product: no row returned")
	}
	return data.ToDomain(), nil
}

// Update overwrites name and price and refreshes updated_at.
func (r *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf(
			"UPDATE %s SET %s = @name, %s = @price, %s = CURRENT_TIMESTAMP() WHERE %s = @id THEN RETURN %s",
			m_product.TableName, m_product.Name, m_product.Price, m_product.UpdatedAt, m_product.ID, returning,
		),
		Params: map[string]interface{}{
			"id":    product.ID(),
			"name":  product.Name(),
			"price": m_product.PriceToNumeric(product.Price()),
		},
	}

	data, err := r.dmlReturning(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", product.ID(), err)
	}
	if data == nil {
		return nil, domain.NewNotFoundError(product.ID())
	}
	return data.ToDomain(), nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var (
		row *spanner.Row
		err error
	)
	if r.txn != nil {
		row, err = r.txn.ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.Columns)
	} else {
		row, err = r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.Columns)
	}
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.NewNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to read product %d: %w", id, err)
	}

	data, err := r.model.FromSpannerRow(row)
	if err != nil {
		return nil, err
	}
	return data.ToDomain(), nil
}

// MarkUsed stamps used_at with the current time.
func (r *ProductRepo) MarkUsed(ctx context.Context, id int64) (*domain.Product, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf(
			"UPDATE %s SET %s = CURRENT_TIMESTAMP() WHERE %s = @id THEN RETURN %s",
			m_product.TableName, m_product.UsedAt, m_product.ID, returning,
		),
		Params: map[string]interface{}{"id": id},
	}

	data, err := r.dmlReturning(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to mark product %d used: %w", id, err)
	}
	if data == nil {
		return nil, domain.NewNotFoundError(id)
	}
	return data.ToDomain(), nil
}

// CheckExistence reports which of ids have a row, in one query.
func (r *ProductRepo) CheckExistence(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, error) {
	result := domain.NewExistenceResult(ids)
	if ids.IsEmpty() {
		return result, nil
	}

	stmt := query.From(m_product.TableName).
		Select(m_product.ID).
		Where(query.In(m_product.ID, ids.Slice())).
		Build()

	var iter *spanner.RowIterator
	if r.txn != nil {
		iter = r.txn.Query(ctx, stmt)
	} else {
		iter = r.client.Single().Query(ctx, stmt)
	}
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check product existence: %w", err)
		}

		var id int64
		if err := row.Column(0, &id); err != nil {
			return nil, fmt.Errorf("failed to parse product id: %w", err)
		}
		result[id] = true
	}

	return result, nil
}

// Ping runs a trivial query to verify the database is reachable.
func (r *ProductRepo) Ping(ctx context.Context) error {
	iter := r.client.Single().Query(ctx, spanner.Statement{SQL: "SELECT 1"})
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("spanner ping failed: %w", err)
	}
	return nil
}

// dmlReturning runs a DML statement with THEN RETURN and decodes at most one row.
// A nil result with no error means no row matched.
func (r *ProductRepo) dmlReturning(ctx context.Context, stmt spanner.Statement) (*m_product.Data, error) {
	if r.txn == nil {
		return nil, errors.New("write requires a read-write transaction")
	}

	var data *m_product.Data
	// The stream is drained so the statement completes before commit.
	err := r.txn.Query(ctx, stmt).Do(func(row *spanner.Row) error {
		if data != nil {
			return nil
		}
		d, err := r.model.FromSpannerRow(row)
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SpannerUnitOfWork runs repository calls inside a Spanner read-write transaction.
// The client retries aborted transactions, so fn may run more than once.
type SpannerUnitOfWork struct {
	repo      *ProductRepo
	committer *committer.SpannerCommitter
}

// NewSpannerUnitOfWork creates a unit of work over repo's client.
func NewSpannerUnitOfWork(repo *ProductRepo) *SpannerUnitOfWork {
	return &SpannerUnitOfWork{
		repo:      repo,
		committer: committer.NewSpannerCommitter(repo.client),
	}
}

// Do executes fn within a read-write transaction.
func (u *SpannerUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repo contracts.ProductRepository) error) error {
	return u.committer.Transact(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		return fn(ctx, u.repo.withTxn(txn))
	})
}
