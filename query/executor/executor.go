// Package executor runs compiled statements through database/sql.
package executor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sbelzile-nexapp/cotton/internal/debug"
	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/cache"
	"github.com/sbelzile-nexapp/cotton/query/compiler"
)

// Compiler is satisfied by *compiler.Compiler and *cache.Compiler.
type Compiler interface {
	Compile(q ast.Query) (*compiler.Statement, error)
}

// Executor compiles query descriptions and runs them on a database
type Executor struct {
	db       *sql.DB
	base     *compiler.Compiler
	compiler Compiler
}

// Open opens a database for the named dialect. The dsn may be a driver
// DSN or a URL (postgres://, mysql://, sqlite://).
func Open(dialectName, dsn string) (*Executor, error) {
	driverName, dataSource, err := driverDSN(dialectName, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialectName, err)
	}

	e, err := New(db, dialectName)
	if err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

// New wraps an existing database handle
func New(db *sql.DB, dialectName string) (*Executor, error) {
	c, err := compiler.New(dialectName)
	if err != nil {
		return nil, err
	}
	return &Executor{db: db, base: c, compiler: c}, nil
}

// WithCache memoizes compiled statements in c.
func (e *Executor) WithCache(c *cache.Cache) *Executor {
	e.compiler = cache.NewCompiler(e.base, c)
	return e
}

// DB returns the underlying database handle
func (e *Executor) DB() *sql.DB {
	return e.db
}

// Dialect returns the executor's dialect name
func (e *Executor) Dialect() string {
	return e.base.Dialect()
}

// Close closes the database
func (e *Executor) Close() error {
	return e.db.Close()
}

// Compile compiles q without running it
func (e *Executor) Compile(q ast.Query) (*compiler.Statement, error) {
	return e.compiler.Compile(q)
}

// Exec compiles and executes a statement that returns no rows
func (e *Executor) Exec(ctx context.Context, q ast.Query) (sql.Result, error) {
	stmt, err := e.compiler.Compile(q)
	if err != nil {
		return nil, err
	}

	debug.Debug("executing statement", "dialect", e.Dialect(), "sql", stmt.Text, "values", len(stmt.Values))

	result, err := e.db.ExecContext(ctx, stmt.Text, stmt.Values...)
	if err != nil {
		return nil, newQueryError(q, stmt, err)
	}
	return result, nil
}

// Query compiles and executes a statement returning rows. The caller
// closes the rows.
func (e *Executor) Query(ctx context.Context, q ast.Query) (*sql.Rows, error) {
	stmt, err := e.compiler.Compile(q)
	if err != nil {
		return nil, err
	}

	debug.Debug("executing query", "dialect", e.Dialect(), "sql", stmt.Text, "values", len(stmt.Values))

	rows, err := e.db.QueryContext(ctx, stmt.Text, stmt.Values...)
	if err != nil {
		return nil, newQueryError(q, stmt, err)
	}
	return rows, nil
}

// Rows runs q and reads every row into a column/value map. It is meant for
// display; values are returned as the driver produced them, with []byte
// converted to string.
func (e *Executor) Rows(ctx context.Context, q ast.Query) ([]string, []map[string]interface{}, error) {
	rows, err := e.Query(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return columns, results, nil
}
