package commands

import (
	"github.com/spf13/cobra"

	"github.com/sbelzile-nexapp/cotton/cli/internal/ui"
	"github.com/sbelzile-nexapp/cotton/query/dialect"
	"github.com/sbelzile-nexapp/cotton/query/executor"
)

func newDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, name := range dialect.Names() {
				d, err := dialect.Get(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					d.QuoteIdentifier("table"),
					d.Placeholder(1),
					executor.Drivers[name],
				})
			}
			return ui.PrintTable([]string{"Dialect", "Identifiers", "Placeholders", "Driver"}, rows)
		},
	}
}
