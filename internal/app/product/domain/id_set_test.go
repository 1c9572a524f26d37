package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDSet(t *testing.T) {
	t.Run("sorts and deduplicates", func(t *testing.T) {
		assert.Equal(t, IDSet{1, 2, 3}, NewIDSet(3, 1, 2, 3, 1))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []int64{3, 1, 2}
		NewIDSet(in...)
		assert.Equal(t, []int64{3, 1, 2}, in)
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, NewIDSet().IsEmpty())
		assert.Equal(t, "", NewIDSet().Key())
	})
}

func TestIDSet_Key(t *testing.T) {
	assert.Equal(t, "1,2,3", NewIDSet(3, 1, 2).Key())
	assert.Equal(t, NewIDSet(1, 2, 3).Key(), NewIDSet(3, 2, 1).Key())
	assert.Equal(t, "-4,7", NewIDSet(7, -4).Key())
	assert.NotEqual(t, NewIDSet(1, 2).Key(), NewIDSet(12).Key())
}

func TestExistenceResult(t *testing.T) {
	set := NewIDSet(2, 1)
	res := NewExistenceResult(set)
	assert.Equal(t, ExistenceResult{1: false, 2: false}, res)
	assert.True(t, res.Covers(set))
	assert.False(t, res.Covers(NewIDSet(1, 2, 3)))

	cp := res.Copy()
	cp[1] = true
	assert.False(t, res[1])
}
