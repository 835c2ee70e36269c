package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/crest/internal/app"
	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/ui/style"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [kind]",
		Short: "List usable presets",
		Long: "List the usable presets of one kind, or of every kind when no " +
			"kind is given. The persisted selection is marked.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			kinds := kindNames()
			if len(args) == 1 {
				kinds = args[:1]
			}

			for i, kind := range kinds {
				infos, err := c.app.ListPresets(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if len(args) == 0 {
					if i > 0 {
						_, _ = fmt.Fprintln(out)
					}
					_, _ = fmt.Fprintf(out, "%s presets:\n", kind)
				}
				printPresetRows(out, infos)
			}
			return nil
		},
	}
}

func kindNames() []string {
	kinds := domain.Kinds()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = string(kind)
	}
	return names
}

func printPresetRows(out io.Writer, infos []app.PresetInfo) {
	for _, info := range infos {
		marker := " "
		if info.Selected {
			marker = style.Check
		}
		label := info.Name
		if info.DisplayName != "" {
			label = fmt.Sprintf("%s  %s", info.Name, info.DisplayName)
		}
		_, _ = fmt.Fprintf(out, "%s %s\n", marker, label)
	}
}
