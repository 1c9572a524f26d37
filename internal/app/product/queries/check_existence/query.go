package check_existence

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/observability"
)

// Request contains the ids to check. Order and duplicates do not matter.
type Request struct {
	IDs []int64
}

// StoreRecorder counts store round trips. *metrics.Metrics satisfies it.
type StoreRecorder interface {
	StoreCall(operation string, err error)
}

// Query answers batch existence lookups through the existence cache.
type Query struct {
	store    contracts.ExistenceChecker
	cache    contracts.ExistenceCache
	recorder StoreRecorder
	logger   *slog.Logger
}

// NewQuery creates a new check existence query. recorder may be nil.
func NewQuery(
	store contracts.ExistenceChecker,
	cache contracts.ExistenceCache,
	recorder StoreRecorder,
	logger *slog.Logger,
) *Query {
	if logger == nil {
		logger = slog.Default()
	}
	return &Query{
		store:    store,
		cache:    cache,
		recorder: recorder,
		logger:   logger,
	}
}

// Execute returns an entry for every requested id.
// A cached result for the same id set is returned without a store round
// trip. Cache failures are logged and treated as misses.
func (q *Query) Execute(ctx context.Context, req *Request) (domain.ExistenceResult, error) {
	if req == nil || len(req.IDs) == 0 {
		return nil, domain.ErrEmptyQuery
	}
	ids := domain.NewIDSet(req.IDs...)

	ctx, span := observability.StartSpan(ctx, "product.check_existence",
		observability.AttrIDCount.Int(len(ids)),
	)
	defer span.End()

	// 1. Cache lookup
	cached, ok, err := q.cache.Get(ctx, ids)
	if err != nil {
		q.logger.WarnContext(ctx, "existence cache get failed", "key", ids.Key(), "error", err)
	}
	if ok && cached.Covers(ids) {
		span.SetAttributes(observability.AttrCacheHit.Bool(true))
		return cached.Copy(), nil
	}
	span.SetAttributes(observability.AttrCacheHit.Bool(false))

	// 2. Store lookup
	result, err := q.store.CheckExistence(ctx, ids)
	if q.recorder != nil {
		q.recorder.StoreCall("check_existence", err)
	}
	if err != nil {
		observability.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}

	// 3. Populate cache
	if err := q.cache.Put(ctx, ids, result); err != nil {
		q.logger.WarnContext(ctx, "existence cache put failed", "key", ids.Key(), "error", err)
		span.SetAttributes(attribute.Bool("productcat.cache.put_failed", true))
	}

	return result.Copy(), nil
}

// ExecuteSingle checks one id. It is the batch form with a singleton set
// and shares its cache entries.
func (q *Query) ExecuteSingle(ctx context.Context, id int64) (bool, error) {
	result, err := q.Execute(ctx, &Request{IDs: []int64{id}})
	if err != nil {
		return false, err
	}
	return result[id], nil
}
