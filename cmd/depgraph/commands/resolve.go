package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/depgraph/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <origin> <specifier>...",
		Short: "Print the file each specifier resolves to from origin",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, _ := cmd.Flags().GetString("platform")
			return c.app.Resolve(cmd.Context(), app.ResolveOptions{
				Origin:     args[0],
				Specifiers: args[1:],
				Platform:   platform,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("platform", "p", "", "Target platform, e.g. ios, android, or web")
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <origin> <specifier>...",
		Short: "Resolve specifiers again after every file change",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, _ := cmd.Flags().GetString("platform")
			return c.app.Watch(cmd.Context(), app.ResolveOptions{
				Origin:     args[0],
				Specifiers: args[1:],
				Platform:   platform,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("platform", "p", "", "Target platform, e.g. ios, android, or web")
	return cmd
}
