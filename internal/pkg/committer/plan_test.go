package committer

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
)

func TestCommitPlan(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())

	plan.Add(nil)
	assert.True(t, plan.IsEmpty())

	plan.Add(spanner.Delete("products", spanner.AllKeys()))
	plan.Add(spanner.Insert("products", []string{"id", "name"}, []interface{}{int64(1), "Snickers bar"}))

	assert.False(t, plan.IsEmpty())
	assert.Equal(t, 2, plan.Count())
	assert.Len(t, plan.Mutations(), 2)
}

func TestSpannerCommitter_ApplyEmptyPlan(t *testing.T) {
	// An empty plan never reaches the client.
	c := NewSpannerCommitter(nil)
	assert.NoError(t, c.Apply(context.Background(), NewPlan()))
}
