package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/crest/internal/ui/style"
)

func (c *CLI) newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <kind> <name>",
		Short: "Persist a preset as the workspace's selection for its kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Select(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s selected %s preset %s\n", style.Check, args[0], args[1])
			return nil
		},
	}
}
