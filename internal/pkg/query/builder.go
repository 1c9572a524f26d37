package query

import (
	"strings"

	"cloud.google.com/go/spanner"
)

// Builder constructs SQL SELECT queries for Cloud Spanner and PostgreSQL.
// Parameter names are generated so conditions never have to be kept in
// sync by hand. Builders are immutable; every method returns a copy.
type Builder struct {
	table        string
	selectCols   []string
	whereClauses []Condition
	forUpdate    bool
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{
		table:        table,
		selectCols:   []string{},
		whereClauses: []Condition{},
	}
}

// Select specifies the columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	newBuilder := b.clone()
	newBuilder.selectCols = append(newBuilder.selectCols, columns...)
	return newBuilder
}

// Where adds a WHERE condition.
// Multiple calls are combined with AND logic.
func (b *Builder) Where(condition Condition) *Builder {
	newBuilder := b.clone()
	newBuilder.whereClauses = append(newBuilder.whereClauses, condition)
	return newBuilder
}

// ForUpdate appends a row lock clause. Only rendered for PostgreSQL;
// Spanner read-write transactions lock what they read.
func (b *Builder) ForUpdate() *Builder {
	newBuilder := b.clone()
	newBuilder.forUpdate = true
	return newBuilder
}

// Build constructs a spanner.Statement using GoogleSQL named parameters.
func (b *Builder) Build() spanner.Statement {
	sql, args := b.render(GoogleSQL)
	params := make(map[string]interface{}, len(args))
	for i, arg := range args {
		params[paramName(i)] = arg
	}
	return spanner.Statement{
		SQL:    sql,
		Params: params,
	}
}

// BuildPositional constructs a PostgreSQL query and its positional arguments.
func (b *Builder) BuildPositional() (string, []interface{}) {
	return b.render(PostgreSQL)
}

func (b *Builder) render(d Dialect) (string, []interface{}) {
	var sql strings.Builder
	args := make([]interface{}, 0, len(b.whereClauses))

	// SELECT clause
	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	// FROM clause
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	// WHERE clause
	if len(b.whereClauses) > 0 {
		sql.WriteString(" WHERE ")
		whereParts := make([]string, 0, len(b.whereClauses))
		for _, condition := range b.whereClauses {
			fragment, condArgs := condition.SQL(d, len(args))
			whereParts = append(whereParts, fragment)
			args = append(args, condArgs...)
		}
		sql.WriteString(strings.Join(whereParts, " AND "))
	}

	if b.forUpdate && d == PostgreSQL {
		sql.WriteString(" FOR UPDATE")
	}

	return sql.String(), args
}

// clone creates a shallow copy of the builder for immutability.
func (b *Builder) clone() *Builder {
	newBuilder := &Builder{
		table:        b.table,
		selectCols:   make([]string, len(b.selectCols)),
		whereClauses: make([]Condition, len(b.whereClauses)),
		forUpdate:    b.forUpdate,
	}
	copy(newBuilder.selectCols, b.selectCols)
	copy(newBuilder.whereClauses, b.whereClauses)
	return newBuilder
}
