package repo

import (
	"context"
	"sync"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/models/m_product"
	"github.com/light-bringer/productcat/internal/pkg/clock"
)

// MemoryRepo is an in-process ProductRepository used for local runs and tests.
// Write transactions are serialized; reads outside a transaction see only
// committed rows.
type MemoryRepo struct {
	mu     sync.RWMutex
	rows   map[int64]*m_product.Data
	nextID int64
	clock  clock.Clock
}

// NewMemoryRepo creates an empty store. Ids start at 1.
func NewMemoryRepo(clk clock.Clock) *MemoryRepo {
	return &MemoryRepo{
		rows:   make(map[int64]*m_product.Data),
		nextID: 1,
		clock:  clk,
	}
}

// Do runs fn against a staged view of the store and publishes its writes
// only when fn returns nil.
func (r *MemoryRepo) Do(ctx context.Context, fn func(ctx context.Context, repo contracts.ProductRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryTx{
		store:  r,
		staged: make(map[int64]*m_product.Data),
		nextID: r.nextID,
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for id, row := range tx.staged {
		r.rows[id] = row
	}
	r.nextID = tx.nextID
	return nil
}

// Insert runs a single-statement transaction.
func (r *MemoryRepo) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var out *domain.Product
	err := r.Do(ctx, func(ctx context.Context, repo contracts.ProductRepository) error {
		var err error
		out, err = repo.Insert(ctx, product)
		return err
	})
	return out, err
}

// Update runs a single-statement transaction.
func (r *MemoryRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var out *domain.Product
	err := r.Do(ctx, func(ctx context.Context, repo contracts.ProductRepository) error {
		var err error
		out, err = repo.Update(ctx, product)
		return err
	})
	return out, err
}

// MarkUsed runs a single-statement transaction.
func (r *MemoryRepo) MarkUsed(ctx context.Context, id int64) (*domain.Product, error) {
	var out *domain.Product
	err := r.Do(ctx, func(ctx context.Context, repo contracts.ProductRepository) error {
		var err error
		out, err = repo.MarkUsed(ctx, id)
		return err
	})
	return out, err
}

// GetByID returns the committed row.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}
	return row.ToDomain(), nil
}

// CheckExistence reports which of ids have a committed row.
func (r *MemoryRepo) CheckExistence(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := domain.NewExistenceResult(ids)
	for _, id := range ids {
		_, result[id] = r.rows[id]
	}
	return result, nil
}

// Ping always succeeds.
func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of committed rows.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// memoryTx is the repository handed to Do callbacks. The store lock is held
// for its whole lifetime.
type memoryTx struct {
	store  *MemoryRepo
	staged map[int64]*m_product.Data
	nextID int64
}

func (t *memoryTx) lookup(id int64) (*m_product.Data, bool) {
	if row, ok := t.staged[id]; ok {
		return row, true
	}
	row, ok := t.store.rows[id]
	return row, ok
}

func (t *memoryTx) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	now := t.store.clock.Now()
	row := &m_product.Data{
		ID:        t.nextID,
		Name:      product.Name(),
		Price:     product.Price(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.nextID++
	t.staged[row.ID] = row
	return row.ToDomain(), nil
}

func (t *memoryTx) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	current, ok := t.lookup(product.ID())
	if !ok {
		return nil, domain.NewNotFoundError(product.ID())
	}

	row := current.Clone()
	row.Name = product.Name()
	row.Price = product.Price()
	row.UpdatedAt = t.store.clock.Now()
	t.staged[row.ID] = row
	return row.ToDomain(), nil
}

func (t *memoryTx) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row, ok := t.lookup(id)
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}
	return row.ToDomain(), nil
}

func (t *memoryTx) MarkUsed(ctx context.Context, id int64) (*domain.Product, error) {
	current, ok := t.lookup(id)
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}

	row := current.Clone()
	now := t.store.clock.Now()
	row.UsedAt = &now
	t.staged[row.ID] = row
	return row.ToDomain(), nil
}

func (t *memoryTx) CheckExistence(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, error) {
	result := domain.NewExistenceResult(ids)
	for _, id := range ids {
		_, result[id] = t.lookup(id)
	}
	return result, nil
}
