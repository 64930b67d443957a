package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbelzile-nexapp/cotton/cli/internal/ui"
	"github.com/sbelzile-nexapp/cotton/query/ast"
	"github.com/sbelzile-nexapp/cotton/query/cache"
	"github.com/sbelzile-nexapp/cotton/query/executor"
)

type execOptions struct {
	wheres      []string
	databaseURL string
	timeout     time.Duration
}

func newExecCommand(a *app) *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec [file]",
		Short: "Compile a query description and run it",
		Long: `Compile a JSON query description and execute it against database_url.
Selects and statements with RETURNING print their rows; other statements
print the number of affected rows.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, a, opts, queryPath(args))
		},
	}

	cmd.Flags().StringArrayVarP(&opts.wheres, "where", "w", nil, "additional where expression (repeatable)")
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "database URL (default from config or DATABASE_URL)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "statement timeout")

	return cmd
}

func runExec(cmd *cobra.Command, a *app, opts *execOptions, path string) error {
	dialectName, err := a.resolveDialect(cmd)
	if err != nil {
		return err
	}

	databaseURL := opts.databaseURL
	if databaseURL == "" {
		databaseURL = a.cfg.DatabaseURL
	}
	if databaseURL == "" {
		return errors.New("no database URL configured: use --database-url, COTTON_DATABASE_URL or DATABASE_URL")
	}

	q, err := loadQuery(cmd, path, opts.wheres)
	if err != nil {
		return err
	}

	e, err := executor.Open(dialectName, databaseURL)
	if err != nil {
		return err
	}
	defer e.Close()

	if a.cfg.CacheSize > 0 {
		e.WithCache(cache.New(a.cfg.CacheSize, time.Hour))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	if returnsRows(q) {
		columns, rows, err := e.Rows(ctx, q)
		if err != nil {
			return err
		}
		return printRows(columns, rows)
	}

	result, err := e.Exec(ctx, q)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	ui.PrintSuccess("%s on %s: %d row(s) affected", q.Type(), q.Table(), affected)
	return nil
}

func returnsRows(q ast.Query) bool {
	switch query := q.(type) {
	case *ast.SelectQuery:
		return true
	case *ast.InsertQuery:
		return len(query.Returning) > 0
	case *ast.UpdateQuery:
		return len(query.Returning) > 0
	default:
		return false
	}
}

func printRows(columns []string, rows []map[string]interface{}) error {
	table := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(columns))
		for j, column := range columns {
			cells[j] = ui.FormatValue(row[column])
		}
		table[i] = cells
	}

	if err := ui.PrintTable(columns, table); err != nil {
		return err
	}
	ui.PrintInfo("%d row(s)", len(rows))
	return nil
}
