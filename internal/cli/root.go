// Package cli provides the Cobra command structure for mlsense.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mlsense/internal/logging"
	_ "github.com/yaklabco/mlsense/pkg/lint/rules" // Register built-in rules
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root mlsense command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	global := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mlsense",
		Short: "Completion and diagnostics for schema-driven markup documents",
		Long: `mlsense analyzes markup documents against an element schema.

It serves completion and diagnostics to editors over the language server
protocol, and checks whole directory trees from the command line. The
schema decides which elements may appear where, which attributes they
accept and which values those attributes take.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if global.debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&global.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&global.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newServeCommand(global))
	rootCmd.AddCommand(newCheckCommand(global))
	rootCmd.AddCommand(newCompleteCommand(global))
	rootCmd.AddCommand(newSchemaCommand(global))
	rootCmd.AddCommand(newRulesCommand(global))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
