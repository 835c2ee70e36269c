package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind> <name>",
		Short: "Show a preset after inheritance resolution and macro expansion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := c.app.ShowPreset(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(preset, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
