package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// Memory is a per-process LRU of existence results with a fixed TTL.
// Results are copied on the way in and out so callers cannot mutate
// a cached entry.
type Memory struct {
	lru      *expirable.LRU[string, domain.ExistenceResult]
	recorder Recorder
}

// NewMemory creates an LRU holding at most size entries, each living ttl
// after it is added. A size of zero means no bound.
func NewMemory(size int, ttl time.Duration, recorder Recorder) *Memory {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Memory{
		lru:      expirable.NewLRU[string, domain.ExistenceResult](size, nil, ttl),
		recorder: recorder,
	}
}

// Get returns a copy of the entry for ids. An entry without an answer for
// every id is a miss.
func (m *Memory) Get(ctx context.Context, ids domain.IDSet) (domain.ExistenceResult, bool, error) {
	val, ok := m.lru.Get(ids.Key())
	if !ok || !val.Covers(ids) {
		m.recorder.CacheMiss(BackendMemory)
		return nil, false, nil
	}
	m.recorder.CacheHit(BackendMemory)
	return val.Copy(), true, nil
}

// Put stores a copy of result under the key of ids.
func (m *Memory) Put(ctx context.Context, ids domain.IDSet, result domain.ExistenceResult) error {
	if len(result) == 0 {
		return nil
	}
	m.lru.Add(ids.Key(), result.Copy())
	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}
