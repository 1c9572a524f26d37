package domain

import (
	"slices"
	"strconv"
	"strings"
)

// IDSet is a deduplicated set of product ids kept in ascending order.
// Two sets with the same members are equal regardless of input order.
type IDSet []int64

// NewIDSet sorts and deduplicates ids.
func NewIDSet(ids ...int64) IDSet {
	set := slices.Clone(ids)
	slices.Sort(set)
	return IDSet(slices.Compact(set))
}

// Key is the canonical cache key: ids ascending, comma separated.
func (s IDSet) Key() string {
	var b strings.Builder
	for i, id := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}

// IsEmpty reports whether the set has no members.
func (s IDSet) IsEmpty() bool {
	return len(s) == 0
}

// Slice returns the members as a plain slice.
func (s IDSet) Slice() []int64 {
	return slices.Clone([]int64(s))
}

// ExistenceResult maps each requested id to whether a row exists for it.
type ExistenceResult map[int64]bool

// NewExistenceResult returns a result with every id in s marked absent.
func NewExistenceResult(s IDSet) ExistenceResult {
	res := make(ExistenceResult, len(s))
	for _, id := range s {
		res[id] = false
	}
	return res
}

// Copy returns an independent copy of the result.
func (r ExistenceResult) Copy() ExistenceResult {
	if r == nil {
		return nil
	}
	cp := make(ExistenceResult, len(r))
	for id, ok := range r {
		cp[id] = ok
	}
	return cp
}

// Covers reports whether r has an entry for every id in s.
func (r ExistenceResult) Covers(s IDSet) bool {
	for _, id := range s {
		if _, ok := r[id]; !ok {
			return false
		}
	}
	return true
}
