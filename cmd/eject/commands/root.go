// Package commands implements the CLI commands for eject.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/eject/internal/app"
	"go.trai.ch/eject/internal/build"
	"go.trai.ch/eject/internal/core/domain"
)

// CLI represents the command line interface for eject.
type CLI struct {
	app     Application
	log     LogConfigurer
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Eject(ctx context.Context, opts app.EjectOptions) (*app.Result, error)
	Watch(ctx context.Context, opts app.EjectOptions, report func(*app.Result)) error
	DryRun(ctx context.Context, opts app.EjectOptions, report func(target string)) (*app.Result, error)
}

// LogConfigurer is implemented by loggers whose verbosity and format can change at runtime.
type LogConfigurer interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "eject",
		Short:         "Compile an esy sandbox into a self-contained Makefile build plan",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.Flags().StringP("sandbox", "s", "", "Sandbox lockfile (discovered from the working directory when empty)")
	rootCmd.Flags().StringP("output", "o", domain.DefaultOutputDir, "Directory the build plan is written to")
	rootCmd.Flags().BoolP("watch", "w", false, "Recompile whenever the lockfile changes")
	rootCmd.Flags().BoolP("dry-run", "n", false, "Print the recipes make would run, in order, without writing the plan")
	rootCmd.MarkFlagsMutuallyExclusive("watch", "dry-run")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Log as JSON")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.log == nil {
			return
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonMode, _ := cmd.Flags().GetBool("json")
		c.log.SetVerbose(verbose)
		c.log.SetJSON(jsonMode)
	}
	rootCmd.RunE = c.runEject

	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// WithLogger lets the persistent --verbose and --json flags reconfigure log.
func (c *CLI) WithLogger(log LogConfigurer) *CLI {
	c.log = log
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
