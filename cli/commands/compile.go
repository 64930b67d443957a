package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sbelzile-nexapp/cotton/cli/internal/ui"
	"github.com/sbelzile-nexapp/cotton/cli/internal/watch"
	"github.com/sbelzile-nexapp/cotton/query/compiler"
)

type compileOptions struct {
	wheres   []string
	watch    bool
	markdown bool
	json     bool
}

func newCompileCommand(a *app) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a query description to SQL",
		Long: `Compile a JSON query description and print the SQL text and bound values.
Reads from stdin when no file or "-" is given.`,
		Example: `  cotton compile -d postgres users.json
  cotton compile -d mysql users.json --where "age >= 18 and not name like 'a%'"
  echo '{"type":"delete","table":"users"}' | cotton compile -d sqlite --where "id = 3"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, a, opts, queryPath(args))
		},
	}

	cmd.Flags().StringArrayVarP(&opts.wheres, "where", "w", nil, "additional where expression (repeatable)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "recompile when the file changes")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "render output as markdown")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print {\"text\", \"values\"} as JSON")
	cmd.MarkFlagsMutuallyExclusive("markdown", "json")

	return cmd
}

func runCompile(cmd *cobra.Command, a *app, opts *compileOptions, path string) error {
	dialectName, err := a.resolveDialect(cmd)
	if err != nil {
		return err
	}

	c, err := newStatementCompiler(dialectName, a.cfg.CacheSize)
	if err != nil {
		return err
	}

	compileOnce := func() error {
		q, err := loadQuery(cmd, path, opts.wheres)
		if err != nil {
			return err
		}
		stmt, err := c.Compile(q)
		if err != nil {
			return err
		}
		return printStatement(dialectName, stmt, opts)
	}

	if !opts.watch {
		return compileOnce()
	}

	if path == "-" {
		return errors.New("--watch requires a file")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ui.PrintInfo("Watching %s (Ctrl+C to stop)", path)
	return watch.Watch(ctx, path, func() error {
		if err := compileOnce(); err != nil {
			ui.PrintError("%v", err)
			return err
		}
		return nil
	})
}

func printStatement(dialectName string, stmt *compiler.Statement, opts *compileOptions) error {
	switch {
	case opts.json:
		enc := json.NewEncoder(ui.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			Text   string        `json:"text"`
			Values []interface{} `json:"values"`
		}{stmt.Text, stmt.Values})

	case opts.markdown:
		return ui.PrintMarkdown(statementMarkdown(dialectName, stmt))

	default:
		ui.PrintBox(dialectName, ui.HighlightSQL(stmt.Text))
		return ui.PrintValues(stmt.Values)
	}
}

func statementMarkdown(dialectName string, stmt *compiler.Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n```sql\n%s\n```\n\n", dialectName, stmt.Text)

	if len(stmt.Values) == 0 {
		b.WriteString("_No bound values._\n")
		return b.String()
	}

	b.WriteString("| # | Type | Value |\n|---|------|-------|\n")
	for i, v := range stmt.Values {
		value := strings.ReplaceAll(ui.FormatValue(v), "|", `\|`)
		fmt.Fprintf(&b, "| %d | `%T` | %s |\n", i+1, v, value)
	}
	return b.String()
}
