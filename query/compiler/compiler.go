// Package compiler compiles query descriptions into parameterized SQL.
package compiler

import (
	"strings"

	"github.com/sbelzile-nexapp/cotton/internal/debug"
	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/dialect"
)

// Statement is a compiled query: SQL text plus the values bound to its
// placeholders, in placeholder order.
type Statement struct {
	Text   string
	Values []interface{}
}

// Compiler compiles queries for one dialect. It keeps no per-query state
// and may be shared between goroutines.
type Compiler struct {
	dialect dialect.Dialect
}

// New creates a compiler for the named dialect
func New(name string) (*Compiler, error) {
	d, err := dialect.Get(name)
	if err != nil {
		return nil, err
	}
	return &Compiler{dialect: d}, nil
}

// Compile compiles q for the named dialect.
func Compile(q ast.Query, dialectName string) (*Statement, error) {
	c, err := New(dialectName)
	if err != nil {
		return nil, err
	}
	return c.Compile(q)
}

// Dialect returns the name of the compiler's dialect
func (c *Compiler) Dialect() string {
	return c.dialect.Name()
}

// Compile compiles q into a statement. On failure no partial statement is
// returned.
func (c *Compiler) Compile(q ast.Query) (*Statement, error) {
	if isNil(q) {
		return nil, newError(ErrInvalidQuery, "cannot compile an empty query")
	}
	if q.Table() == "" {
		return nil, newError(ErrInvalidQuery, "cannot perform %s without a table name", q.Type())
	}

	acc := newAccumulator(c.dialect)

	var parts []string
	var err error

	switch query := q.(type) {
	case *ast.SelectQuery:
		parts, err = compileSelect(acc, query)
	case *ast.InsertQuery:
		parts, err = compileInsert(acc, query)
	case *ast.UpdateQuery:
		parts, err = compileUpdate(acc, query)
	case *ast.DeleteQuery:
		parts, err = compileDelete(acc, query)
	default:
		return nil, newError(ErrUnsupportedQuery, "unsupported query type: %s", q.Type())
	}

	if err != nil {
		debug.Debug("query compilation failed", "type", q.Type(), "table", q.Table(), "dialect", c.dialect.Name(), "error", err)
		return nil, err
	}

	stmt := &Statement{
		Text:   strings.Join(parts, " ") + ";",
		Values: acc.values,
	}

	debug.Debug("compiled statement", "type", q.Type(), "table", q.Table(), "dialect", c.dialect.Name(), "values", len(stmt.Values))

	return stmt, nil
}

func compileSelect(acc *accumulator, q *ast.SelectQuery) ([]string, error) {
	columns := "*"
	if len(q.Columns) > 0 {
		columns = "(" + strings.Join(q.Columns, ", ") + ")"
	}

	parts := []string{"SELECT", columns, "FROM", acc.quote(q.TableName)}

	constraints, err := collectConstraints(acc, q.Constraints)
	if err != nil {
		return nil, err
	}
	return append(parts, constraints...), nil
}

func compileInsert(acc *accumulator, q *ast.InsertQuery) ([]string, error) {
	op := string(q.Type())
	if len(q.Records) == 0 {
		return nil, missingValues(op)
	}

	columns := unionColumns(q.Records)
	if len(columns) == 0 {
		return nil, missingValues(op)
	}

	tuples := make([]string, len(q.Records))
	for i, record := range q.Records {
		values := make([]string, len(columns))
		for j, column := range columns {
			// A missing column reads as nil and serializes to NULL.
			value, _ := record.Get(column)
			values[j] = acc.toDatabaseValue(value)
		}
		tuples[i] = "(" + strings.Join(values, ", ") + ")"
	}

	keyword := "INSERT INTO"
	if q.Replace {
		keyword = "REPLACE INTO"
	}

	parts := []string{
		keyword,
		acc.quote(q.TableName),
		"(" + strings.Join(columns, ", ") + ")",
		"VALUES",
		strings.Join(tuples, ", "),
	}

	return appendReturning(parts, q.Returning), nil
}

func compileUpdate(acc *accumulator, q *ast.UpdateQuery) ([]string, error) {
	if len(q.Values) == 0 {
		return nil, missingValues(string(q.Type()))
	}

	sets := make([]string, len(q.Values))
	for i, field := range q.Values {
		sets[i] = acc.quote(field.Column) + " = " + acc.toDatabaseValue(field.Value)
	}

	parts := []string{"UPDATE", acc.quote(q.TableName), "SET", strings.Join(sets, ", ")}
	parts = appendReturning(parts, q.Returning)

	constraints, err := collectConstraints(acc, q.Constraints)
	if err != nil {
		return nil, err
	}
	return append(parts, constraints...), nil
}

func compileDelete(acc *accumulator, q *ast.DeleteQuery) ([]string, error) {
	// Unconstrained deletes are always rejected.
	if len(q.Wheres) == 0 {
		return nil, newError(ErrMissingConstraints, "cannot perform delete without any constraints")
	}

	parts := []string{"DELETE FROM", acc.quote(q.TableName)}

	constraints, err := collectConstraints(acc, q.Constraints)
	if err != nil {
		return nil, err
	}
	return append(parts, constraints...), nil
}

// unionColumns returns every column used by records, in first-seen order.
func unionColumns(records []ast.Record) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, record := range records {
		for _, field := range record {
			if seen[field.Column] {
				continue
			}
			seen[field.Column] = true
			columns = append(columns, field.Column)
		}
	}
	return columns
}

func appendReturning(parts []string, returning []string) []string {
	if len(returning) == 0 {
		return parts
	}
	return append(parts, "RETURNING", strings.Join(returning, ", "))
}
