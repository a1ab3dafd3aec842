// Package commands implements the CLI commands for depgraph.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/depgraph/internal/app"
	"go.trai.ch/depgraph/internal/build"
)

// CLI represents the command line interface for depgraph.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	ConfigureLogging(opts app.LogOptions)
	Resolve(ctx context.Context, opts app.ResolveOptions, w io.Writer) error
	Hash(ctx context.Context, paths []string, w io.Writer) error
	Names(ctx context.Context, paths []string, w io.Writer) error
	Watch(ctx context.Context, opts app.ResolveOptions, w io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "depgraph",
		Short:         "Resolve import specifiers against a watched project tree",
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

	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, pretty, or json")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		format, _ := cmd.Flags().GetString("log-format")
		verbose, _ := cmd.Flags().GetBool("verbose")
		c.app.ConfigureLogging(app.LogOptions{
			Format:  format,
			Verbose: verbose,
			Output:  cmd.ErrOrStderr(),
		})
	}

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newNameCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

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
