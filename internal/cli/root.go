// Package cli provides the Cobra command structure for mdtree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root mdtree command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mdtree",
		Short: "Parse Markdown into HTML or an inspectable syntax tree",
		Long: `mdtree parses Markdown with a configurable set of rules.

Pick a preset (commonmark, gfm or zero), enable extra rules such as
tables, footnotes or front matter, then either render HTML or dump the
syntax tree with node kinds, metadata and source spans.`,
		Version: info.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.AddCommand(newHTMLCommand(globals))
	rootCmd.AddCommand(newASTCommand(globals))
	rootCmd.AddCommand(newBuildCommand(globals))
	rootCmd.AddCommand(newRulesCommand(globals))
	rootCmd.AddCommand(newConfigCommand(globals))
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(&globals.color).ApplyToCommand(rootCmd)

	return rootCmd
}
