// Package fakes provides an instrumented in-memory store for tests.
package fakes

import (
	"context"
	"sync"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/app/product/repo"
	"github.com/light-bringer/productcat/internal/pkg/clock"
)

// Store operations, used as keys for Calls and Fail.
const (
	OpInsert         = "insert"
	OpUpdate         = "update"
	OpGetByID        = "get_by_id"
	OpMarkUsed       = "mark_used"
	OpCheckExistence = "check_existence"
	OpTransaction    = "transaction"
)

// Store wraps repo.MemoryRepo, counting every store call and optionally
// failing chosen operations. It is a UnitOfWork and an ExistenceChecker.
type Store struct {
	mem *repo.MemoryRepo

	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error
}

// NewStore creates an empty store.
func NewStore(clk clock.Clock) *Store {
	return &Store{
		mem:   repo.NewMemoryRepo(clk),
		calls: make(map[string]int),
		errs:  make(map[string]error),
	}
}

// Fail makes every later call to op return err. A nil err clears it.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, op)
		return
	}
	s.errs[op] = err
}

// Calls returns how many times op was invoked.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Peek reads the committed row without counting the call.
func (s *Store) Peek(ctx context.Context, id int64) (*domain.Product, error) {
	return s.mem.GetByID(ctx, id)
}

func (s *Store) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.errs[op]
}

// Do runs fn in a memory transaction with a counting repository.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repo contracts.ProductRepository) error) error {
	if err := s.record(OpTransaction); err != nil {
		return err
	}
	return s.mem.Do(ctx, func(ctx context.Context, tx contracts.ProductRepository) error {
		return fn(ctx, &countingRepo{store: s, tx: tx})
	})
}

// CheckExistence counts the call and delegates to the memory store.
func (s *Store) CheckExistence(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, error) {
	if err := s.record(OpCheckExistence); err != nil {
		return nil, err
	}
	return s.mem.CheckExistence(ctx, ids)
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return s.mem.Ping(ctx)
}

type countingRepo struct {
	store *Store
	tx    contracts.ProductRepository
}

func (r *countingRepo) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.store.record(OpInsert); err != nil {
		return nil, err
	}
	return r.tx.Insert(ctx, product)
}

func (r *countingRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.store.record(OpUpdate); err != nil {
		return nil, err
	}
	return r.tx.Update(ctx, product)
}

func (r *countingRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.store.record(OpGetByID); err != nil {
		return nil, err
	}
	return r.tx.GetByID(ctx, id)
}

func (r *countingRepo) MarkUsed(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.store.record(OpMarkUsed); err != nil {
		return nil, err
	}
	return r.tx.MarkUsed(ctx, id)
}

func (r *countingRepo) CheckExistence(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, error) {
	if err := r.store.record(OpCheckExistence); err != nil {
		return nil, err
	}
	return r.tx.CheckExistence(ctx, ids)
}
