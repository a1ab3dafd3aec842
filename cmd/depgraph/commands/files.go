package commands

import "github.com/spf13/cobra"

func (c *CLI) newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print the content hash of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Hash(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
}

func (c *CLI) newNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name <path>...",
		Short: "Print the name each file is registered under",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Names(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
}
