// Package commands implements the CLI commands for the crest preset tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/crest/internal/adapters/detector"
	"go.trai.ch/crest/internal/app"
	"go.trai.ch/crest/internal/build"
	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
	"go.trai.ch/crest/internal/engine/presets"
)

// CLI represents the command line interface for crest.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Reload(ctx context.Context) error
	ListPresets(ctx context.Context, kind string) ([]app.PresetInfo, error)
	ShowPreset(ctx context.Context, kind, name string) (domain.Preset, error)
	SynthesizeArgs(ctx context.Context, kind, name string) ([]string, error)
	Select(ctx context.Context, kind, name string) error
	Selected(kind string) (string, error)
	Watch(ctx context.Context) error
	Diagnostics() []presets.Diagnostic
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "crest",
		Short:         "Resolve and inspect CMake presets",
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

	c := &CLI{
		app:    a,
		logger: log,
	}

	// An explicit flag overrides both auto-detection and crest.yaml.
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		format, _ := cmd.Flags().GetString("log-format")
		if format == "" || format == "auto" {
			return
		}
		resolved := detector.ResolveFormat(detector.DetectEnvironment(), format)
		c.logger.SetJSON(resolved == detector.FormatJSON)
	}

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newArgsCmd())
	rootCmd.AddCommand(c.newSelectCmd())
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
