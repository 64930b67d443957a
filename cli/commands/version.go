package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sbelzile-nexapp/cotton/cli/internal/ui"
	"github.com/sbelzile-nexapp/cotton/cli/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(ui.Out, version.Get().FullString())
		},
	}
}
