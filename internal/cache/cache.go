// Package cache implements the existence cache consulted by batch lookups.
//
// Entries are keyed by the canonical form of an id set (ascending ids joined
// by commas), so the same set requested in any order shares one entry.
// Empty results are never stored.
package cache

import (
	"context"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// Backend names used in config and metrics labels.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Recorder receives hit/miss/error counts. *metrics.Metrics satisfies it.
type Recorder interface {
	CacheHit(backend string)
	CacheMiss(backend string)
	CacheError(backend string)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)   {}
func (nopRecorder) CacheMiss(string)  {}
func (nopRecorder) CacheError(string) {}

// Nop is a disabled cache: every Get misses and Put stores nothing.
type Nop struct{}

// NewNop creates a disabled cache.
func NewNop() *Nop {
	return &Nop{}
}

func (Nop) Get(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, bool, error) {
	return nil, false, nil
}

func (Nop) Put(ctx context.Context, ids domain.IDSet, result domain.ExistenceResult) error {
	return nil
}
