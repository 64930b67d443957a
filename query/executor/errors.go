package executor

import (
	"fmt"

	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/compiler"
)

// QueryError is a driver failure while running a compiled statement.
type QueryError struct {
	Operation ast.NodeType
	Table     string
	Statement *compiler.Statement
	Cause     error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Operation, e.Table, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

func newQueryError(q ast.Query, stmt *compiler.Statement, cause error) *QueryError {
	return &QueryError{
		Operation: q.Type(),
		Table:     q.Table(),
		Statement: stmt,
		Cause:     cause,
	}
}
