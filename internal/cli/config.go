package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
)

// initFlags holds the flags for the config init command.
type initFlags struct {
	force  bool
	output string
}

func newConfigCommand(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create mdtree configuration",
		Long: `Configuration is merged from, lowest precedence first: built-in
defaults, /etc/mdtree/config.yaml, the user config directory, the nearest
.mdtree.yml above the working directory, --config, MDTREE_* environment
variables and command-line flags.`,
		Args: usageArgs(cobra.NoArgs),
	}

	cmd.AddCommand(newConfigShowCommand(globals))
	cmd.AddCommand(newConfigPathsCommand(globals))
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand(globals *globalFlags) *cobra.Command {
	flags := &parserFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, globals, flags.cliConfig(cmd, globals))
			if err != nil {
				return err
			}

			content, err := cfg.ToYAML()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if _, err := cmd.OutOrStdout().Write(content); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	addParserFlags(cmd, flags)

	return cmd
}

func newConfigPathsCommand(globals *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the configuration files mdtree looks for",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}

			paths, err := configloader.DiscoverPaths(commandContext(cmd), workDir)
			if err != nil {
				return err
			}
			paths.Explicit = globals.configPath

			return writePaths(cmd.OutOrStdout(), paths)
		},
	}
}

func writePaths(out io.Writer, paths *configloader.ConfigPaths) error {
	rows := []struct {
		label string
		path  string
	}{
		{"system", paths.System},
		{"user", paths.User},
		{"project", paths.Project},
		{"explicit", paths.Explicit},
	}
	for _, row := range rows {
		path := row.path
		if path == "" {
			path = "-"
		}
		if _, err := fmt.Fprintf(out, "%-9s %s\n", row.label, path); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func newConfigInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Long: `Create a .mdtree.yml file in the current directory holding the
default settings. Edit it to pick a preset, enable rules or change how
syntax trees are printed.

Examples:
  mdtree config init
  mdtree config init --output docs/.mdtree.yml
  mdtree config init --force`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(commandContext(cmd), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigFiles[0], "output file path")

	return cmd
}

func runConfigInit(ctx context.Context, flags *initFlags) error {
	logger := logging.NewInteractive()

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if flags.force {
		if _, err := os.Stat(absPath); err == nil {
			logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
		}
	}

	err = configloader.WriteConfig(ctx, config.NewConfig(), absPath, flags.force)
	if errors.Is(err, fs.ErrExist) {
		return &UsageError{Err: fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)}
	}
	if err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'mdtree rules' to see the rules you can enable")
	return nil
}
