// Package builder provides a fluent API producing query descriptions.
package builder

import (
	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/compiler"
)

// QueryBuilder accumulates table-level clauses. Terminal methods (Find,
// Insert, Replace, Update, Delete) return independent descriptions; later
// changes to the builder do not affect them.
type QueryBuilder struct {
	table     string
	columns   []string
	wheres    []ast.Where
	orders    []ast.Order
	limit     *int
	offset    *int
	returning []string
}

// Table starts a builder for the given table
func Table(name string) *QueryBuilder {
	return &QueryBuilder{table: name}
}

// Select restricts the selected columns
func (b *QueryBuilder) Select(columns ...string) *QueryBuilder {
	b.columns = append(b.columns, columns...)
	return b
}

// Where adds a condition joined with AND
func (b *QueryBuilder) Where(column, operator string, value interface{}) *QueryBuilder {
	return b.addWhere(column, operator, value, ast.WhereDefault)
}

// OrWhere adds a condition joined with OR
func (b *QueryBuilder) OrWhere(column, operator string, value interface{}) *QueryBuilder {
	return b.addWhere(column, operator, value, ast.WhereOr)
}

// NotWhere adds a negated condition joined with AND NOT
func (b *QueryBuilder) NotWhere(column, operator string, value interface{}) *QueryBuilder {
	return b.addWhere(column, operator, value, ast.WhereNot)
}

// WhereIn adds an IN condition
func (b *QueryBuilder) WhereIn(column string, values ...interface{}) *QueryBuilder {
	return b.addWhere(column, "in", values, ast.WhereDefault)
}

// WhereBetween adds a BETWEEN condition
func (b *QueryBuilder) WhereBetween(column string, low, high interface{}) *QueryBuilder {
	return b.addWhere(column, "between", []interface{}{low, high}, ast.WhereDefault)
}

// WhereNull adds an IS NULL condition
func (b *QueryBuilder) WhereNull(column string) *QueryBuilder {
	return b.addWhere(column, "is", nil, ast.WhereDefault)
}

// WhereNotNull adds an IS NOT NULL condition
func (b *QueryBuilder) WhereNotNull(column string) *QueryBuilder {
	return b.addWhere(column, "is not", nil, ast.WhereDefault)
}

// Filter appends prebuilt conditions, such as those from the columns package
func (b *QueryBuilder) Filter(conditions ...ast.Where) *QueryBuilder {
	b.wheres = append(b.wheres, conditions...)
	return b
}

func (b *QueryBuilder) addWhere(column, operator string, value interface{}, t ast.WhereType) *QueryBuilder {
	b.wheres = append(b.wheres, ast.Where{
		Column:   column,
		Operator: operator,
		Value:    value,
		Type:     t,
	})
	return b
}

// OrderBy adds an ORDER BY entry
func (b *QueryBuilder) OrderBy(column string, direction ast.SortDirection) *QueryBuilder {
	b.orders = append(b.orders, ast.Order{Column: column, Direction: direction})
	return b
}

// Limit sets the LIMIT
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.limit = &n
	return b
}

// Offset sets the OFFSET
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.offset = &n
	return b
}

// Returning sets the columns of the RETURNING clause for inserts and updates
func (b *QueryBuilder) Returning(columns ...string) *QueryBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

// Find returns a select description
func (b *QueryBuilder) Find() *ast.SelectQuery {
	return &ast.SelectQuery{
		TableName:   b.table,
		Columns:     cloneStrings(b.columns),
		Constraints: b.constraints(),
	}
}

// Insert returns an insert description for one or more records
func (b *QueryBuilder) Insert(records ...ast.Record) *ast.InsertQuery {
	return &ast.InsertQuery{
		TableName: b.table,
		Records:   cloneRecords(records),
		Returning: cloneStrings(b.returning),
	}
}

// Replace is Insert compiled as REPLACE INTO
func (b *QueryBuilder) Replace(records ...ast.Record) *ast.InsertQuery {
	q := b.Insert(records...)
	q.Replace = true
	return q
}

// Update returns an update description
func (b *QueryBuilder) Update(values ast.Record) *ast.UpdateQuery {
	return &ast.UpdateQuery{
		TableName:   b.table,
		Values:      append(ast.Record(nil), values...),
		Returning:   cloneStrings(b.returning),
		Constraints: b.constraints(),
	}
}

// Delete returns a delete description
func (b *QueryBuilder) Delete() *ast.DeleteQuery {
	return &ast.DeleteQuery{
		TableName:   b.table,
		Constraints: b.constraints(),
	}
}

// ToSQL compiles q for the named dialect.
func ToSQL(q ast.Query, dialect string) (*compiler.Statement, error) {
	return compiler.Compile(q, dialect)
}

func (b *QueryBuilder) constraints() ast.Constraints {
	return ast.Constraints{
		Wheres: append([]ast.Where(nil), b.wheres...),
		Orders: append([]ast.Order(nil), b.orders...),
		Limit:  cloneInt(b.limit),
		Offset: cloneInt(b.offset),
	}
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneRecords(records []ast.Record) []ast.Record {
	out := make([]ast.Record, len(records))
	for i, r := range records {
		out[i] = append(ast.Record(nil), r...)
	}
	return out
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
