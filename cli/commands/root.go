// Package commands implements the cotton CLI.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sbelzile-nexapp/cotton/cli/internal/config"
	"github.com/sbelzile-nexapp/cotton/cli/internal/ui"
	"github.com/sbelzile-nexapp/cotton/cli/internal/version"
	"github.com/sbelzile-nexapp/cotton/internal/debug"
	"github.com/sbelzile-nexapp/cotton/query/dialect"
)

// app carries global flags and the loaded configuration to subcommands
type app struct {
	configFile string
	dialect    string
	debug      bool

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cotton",
		Short: "Compile query descriptions to dialect-specific SQL",
		Long: `cotton compiles JSON query descriptions into parameterized SQL for
MySQL, PostgreSQL and SQLite, and can run them against a database.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Out = cmd.OutOrStdout()
			ui.ErrOut = cmd.ErrOrStderr()

			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg

			debug.InitWriter(a.debug || cfg.Debug, cmd.ErrOrStderr())
			debug.Debug("configuration loaded", "dialect", cfg.Dialect, "cache_size", cfg.CacheSize)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default .cotton.yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.dialect, "dialect", "d", "", "SQL dialect: "+strings.Join(dialect.Names(), ", "))
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newCompileCommand(a))
	rootCmd.AddCommand(newExecCommand(a))
	rootCmd.AddCommand(newDialectsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute is the main entry point for the CLI
func Execute() error {
	err := newRootCommand().Execute()
	if err != nil {
		ui.PrintError("%v", err)
	}
	return err
}

// resolveDialect picks the dialect from --dialect, then configuration, then
// an interactive prompt.
func (a *app) resolveDialect(cmd *cobra.Command) (string, error) {
	name := a.dialect
	if name == "" && a.cfg != nil {
		name = a.cfg.Dialect
	}

	if name == "" {
		if !isTerminal(cmd.InOrStdin()) {
			return "", errors.New("no dialect configured: use --dialect or COTTON_DIALECT")
		}
		prompt := &survey.Select{
			Message: "Choose a SQL dialect:",
			Options: dialect.Names(),
		}
		if err := survey.AskOne(prompt, &name); err != nil {
			return "", fmt.Errorf("dialect selection cancelled: %w", err)
		}
	}

	name = strings.ToLower(name)
	if _, err := dialect.Get(name); err != nil {
		return "", err
	}
	return name, nil
}

// isTerminal reports whether prompts can be shown on r
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
