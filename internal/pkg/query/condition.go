package query

import "fmt"

// Dialect selects how parameters are rendered.
type Dialect int

const (
	// GoogleSQL renders named parameters (@p0, @p1, ...) for Cloud Spanner.
	GoogleSQL Dialect = iota
	// PostgreSQL renders positional parameters ($1, $2, ...).
	PostgreSQL
)

// Placeholder returns the parameter reference for the i-th (zero based) parameter.
func (d Dialect) Placeholder(i int) string {
	if d == PostgreSQL {
		return fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("@%s", paramName(i))
}

func paramName(i int) string {
	return fmt.Sprintf("p%d", i)
}

// Condition represents a WHERE clause condition.
// Implementations return the SQL fragment and the values it binds, in order.
type Condition interface {
	// SQL returns the SQL fragment and bound values for this condition.
	// paramIndex is the index of the first parameter the condition may use.
	SQL(d Dialect, paramIndex int) (string, []interface{})
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("id", 7) generates "id = @p0" or "id = $1".
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(d Dialect, paramIndex int) (string, []interface{}) {
	return fmt.Sprintf("%s = %s", c.field, d.Placeholder(paramIndex)), []interface{}{c.value}
}

// inCondition implements set membership against a single array parameter.
type inCondition struct {
	field  string
	values interface{}
}

// In creates a WHERE condition matching any element of values, which must be a slice.
// Example: In("id", []int64{1, 2}) generates "id IN UNNEST(@p0)" or "id = ANY($1)".
func In(field string, values interface{}) Condition {
	return &inCondition{
		field:  field,
		values: values,
	}
}

// SQL generates the SQL fragment for set membership.
func (c *inCondition) SQL(d Dialect, paramIndex int) (string, []interface{}) {
	if d == PostgreSQL {
		return fmt.Sprintf("%s = ANY(%s)", c.field, d.Placeholder(paramIndex)), []interface{}{c.values}
	}
	return fmt.Sprintf("%s IN UNNEST(%s)", c.field, d.Placeholder(paramIndex)), []interface{}{c.values}
}
