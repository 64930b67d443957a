package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbelzile-nexapp/cotton/cli/internal/config"
	"github.com/sbelzile-nexapp/cotton/cli/internal/filter"
	"github.com/sbelzile-nexapp/cotton/cli/internal/queryfile"
	"github.com/sbelzile-nexapp/cotton/cli/internal/version"
	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/cache"
	"github.com/sbelzile-nexapp/cotton/query/compiler"
)

// statementCompiler is satisfied by *compiler.Compiler and *cache.Compiler
type statementCompiler interface {
	Compile(q ast.Query) (*compiler.Statement, error)
}

// queryPath returns the query file argument, "-" meaning stdin
func queryPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// loadQuery reads the query file at path, checks its version requirement
// and appends the --where expressions.
func loadQuery(cmd *cobra.Command, path string, whereExprs []string) (ast.Query, error) {
	var (
		f   *queryfile.File
		err error
	)
	if path == "-" {
		f, err = queryfile.Read(cmd.InOrStdin())
	} else {
		f, err = queryfile.Load(config.AppFs, path)
	}
	if err != nil {
		return nil, err
	}

	ok, err := version.Satisfies(f.Requires)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("query file requires cotton %s, running %s", f.Requires, version.Version)
	}

	extra, err := filter.ParseAll(whereExprs)
	if err != nil {
		return nil, err
	}

	return f.Query(extra...)
}

// newStatementCompiler returns a compiler for dialectName, memoized when
// cacheSize is positive.
func newStatementCompiler(dialectName string, cacheSize int) (statementCompiler, error) {
	c, err := compiler.New(dialectName)
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		return c, nil
	}
	return cache.NewCompiler(c, cache.New(cacheSize, time.Hour)), nil
}
