package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newArgsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "args <kind> <name>",
		Short: "Print the command-line arguments a preset is equivalent to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			argv, err := c.app.SynthesizeArgs(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			perLine, _ := cmd.Flags().GetBool("lines")
			out := cmd.OutOrStdout()
			if perLine {
				for _, arg := range argv {
					_, _ = fmt.Fprintln(out, arg)
				}
				return nil
			}
			_, _ = fmt.Fprintln(out, strings.Join(argv, " "))
			return nil
		},
	}
	cmd.Flags().BoolP("lines", "l", false, "Print one argument per line")
	return cmd
}
