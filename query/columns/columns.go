// Package columns provides type-safe column expressions for query building.
package columns

import (
	"time"

	"github.com/sbelzile-nexapp/cotton/query/ast"
)

// Column is a typed column. Conditions built from it only accept values of
// the column's Go type.
type Column[T any] struct {
	name string
}

// New creates a typed column
func New[T any](name string) Column[T] {
	return Column[T]{name: name}
}

// Int creates an int64 column
func Int(name string) Column[int64] { return New[int64](name) }

// Float creates a float64 column
func Float(name string) Column[float64] { return New[float64](name) }

// Bool creates a boolean column
func Bool(name string) Column[bool] { return New[bool](name) }

// DateTime creates a time column
func DateTime(name string) Column[time.Time] { return New[time.Time](name) }

// Name returns the column name
func (c Column[T]) Name() string {
	return c.name
}

// Set creates a record field assigning value to the column
func (c Column[T]) Set(value T) ast.Field {
	return ast.Field{Column: c.name, Value: value}
}

// SetNull creates a record field assigning NULL to the column
func (c Column[T]) SetNull() ast.Field {
	return ast.Field{Column: c.name, Value: nil}
}

// EQ creates an equality condition
func (c Column[T]) EQ(value T) ast.Where {
	return c.condition("=", value)
}

// NotEQ creates a not-equal condition
func (c Column[T]) NotEQ(value T) ast.Where {
	return c.condition("!=", value)
}

// GT creates a greater-than condition
func (c Column[T]) GT(value T) ast.Where {
	return c.condition(">", value)
}

// GTE creates a greater-than-or-equal condition
func (c Column[T]) GTE(value T) ast.Where {
	return c.condition(">=", value)
}

// LT creates a less-than condition
func (c Column[T]) LT(value T) ast.Where {
	return c.condition("<", value)
}

// LTE creates a less-than-or-equal condition
func (c Column[T]) LTE(value T) ast.Where {
	return c.condition("<=", value)
}

// In creates an IN condition
func (c Column[T]) In(values ...T) ast.Where {
	return c.condition("in", values)
}

// NotIn creates a NOT IN condition
func (c Column[T]) NotIn(values ...T) ast.Where {
	return c.condition("not in", values)
}

// Between creates a BETWEEN condition
func (c Column[T]) Between(low, high T) ast.Where {
	return c.condition("between", []T{low, high})
}

// IsNull creates an IS NULL condition
func (c Column[T]) IsNull() ast.Where {
	return c.condition("is", nil)
}

// IsNotNull creates an IS NOT NULL condition
func (c Column[T]) IsNotNull() ast.Where {
	return c.condition("is not", nil)
}

func (c Column[T]) condition(operator string, value interface{}) ast.Where {
	return ast.Where{Column: c.name, Operator: operator, Value: value}
}

// StringColumn is a text column with pattern matching helpers
type StringColumn struct {
	Column[string]
}

// String creates a text column
func String(name string) StringColumn {
	return StringColumn{Column: New[string](name)}
}

// Like creates a LIKE condition with a raw pattern
func (c StringColumn) Like(pattern string) ast.Where {
	return c.condition("like", pattern)
}

// Contains matches values containing s. LIKE wildcards in s are not escaped.
func (c StringColumn) Contains(s string) ast.Where {
	return c.Like("%" + s + "%")
}

// StartsWith matches values starting with s
func (c StringColumn) StartsWith(s string) ast.Where {
	return c.Like(s + "%")
}

// EndsWith matches values ending with s
func (c StringColumn) EndsWith(s string) ast.Where {
	return c.Like("%" + s)
}

// Or joins w to the previous condition with OR
func Or(w ast.Where) ast.Where {
	w.Type = ast.WhereOr
	return w
}

// Not negates w and joins it with AND NOT
func Not(w ast.Where) ast.Where {
	w.Type = ast.WhereNot
	return w
}
