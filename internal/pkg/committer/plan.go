// Package committer runs store work inside explicit transactions.
//
// Use cases never open transactions themselves. They hand a function to a
// UnitOfWork, and the backend's committer decides how that function is
// wrapped:
//
//	err := uow.Do(ctx, func(ctx context.Context, repo contracts.ProductRepository) error {
//	    before, err := repo.GetByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    _, err = repo.MarkUsed(ctx, id)
//	    return err
//	})
//
// Either every write made through repo is committed or none is.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan collects Spanner mutations to be applied atomically.
// Used for bulk loads where DML and THEN RETURN are not needed.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// SpannerCommitter runs transactions on a Spanner client.
type SpannerCommitter struct {
	client *spanner.Client
}

// NewSpannerCommitter creates a new SpannerCommitter.
func NewSpannerCommitter(client *spanner.Client) *SpannerCommitter {
	return &SpannerCommitter{client: client}
}

// Apply writes every mutation in plan in one transaction.
func (c *SpannerCommitter) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// Transact runs fn inside a read-write transaction.
// Aborted transactions are retried by the client, so fn must be safe to run again.
// Errors returned by fn are passed through unwrapped.
func (c *SpannerCommitter) Transact(ctx context.Context, fn func(context.Context, *spanner.ReadWriteTransaction) error) error {
	_, err := c.client.ReadWriteTransaction(ctx, fn)
	return err
}
