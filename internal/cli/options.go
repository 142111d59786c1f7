package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/markdown"
)

// errConfigLoad wraps failures to read or merge configuration files.
var errConfigLoad = errors.New("failed to load configuration")

// stdinName is the file argument that selects standard input.
const stdinName = "-"

// parserFlags are the flags of commands that parse Markdown.
type parserFlags struct {
	preset string
	enable []string
	xhtml  bool
}

func addParserFlags(cmd *cobra.Command, flags *parserFlags) {
	cmd.Flags().StringVarP(&flags.preset, "config-preset", "c", config.DefaultPreset,
		"preset name: commonmark, gfm, zero")
	cmd.Flags().StringSliceVarP(&flags.enable, "enable", "e", nil,
		"comma-separated rules to enable on top of the preset")
	cmd.Flags().BoolVar(&flags.xhtml, "xhtml", false,
		"render self-closing void elements (default from preset)")
}

// cliConfig turns the flags the user actually set into a config layer.
func (f *parserFlags) cliConfig(cmd *cobra.Command, globals *globalFlags) *config.Config {
	cfg := &config.Config{}
	if cmd.Flags().Changed("config-preset") {
		cfg.Preset = f.preset
	}
	if cmd.Flags().Changed("enable") {
		cfg.Plugins = f.enable
	}
	if cmd.Flags().Changed("xhtml") {
		cfg.XHTML = config.Bool(f.xhtml)
	}
	if root := cmd.Root(); root != nil && root.PersistentFlags().Changed("color") {
		cfg.Color = config.ColorMode(globals.color)
	}
	return cfg
}

// loadConfig resolves the configuration for a command run.
func loadConfig(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		ExplicitPath: globals.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		var validationErr *configloader.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}
		return nil, errors.Join(errConfigLoad, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", result.LoadedFrom)
	}

	cfg := result.Config
	if cfg.Debug {
		logging.SetLevel("debug")
	}
	logger.Debug("configuration loaded",
		logging.FieldPreset, cfg.Preset,
		logging.FieldRules, cfg.Plugins,
	)
	return cfg, nil
}

// buildMarkdown creates a parser configuration from cfg.
func buildMarkdown(cfg *config.Config) (*markdown.Markdown, error) {
	md, err := markdown.New(cfg.Preset)
	if err != nil {
		return nil, err
	}
	if err := md.EnableMany(cfg.Plugins); err != nil {
		return nil, err
	}
	if cfg.XHTML != nil {
		md.SetXHTML(*cfg.XHTML)
	}
	return md, nil
}

// readInput reads the named file, or standard input for "-" or no
// argument. An interactive terminal on stdin without an explicit "-" is a
// usage error, since the command would otherwise hang waiting for input.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	name := stdinName
	if len(args) > 0 {
		name = args[0]
	}

	if name != stdinName {
		return fsutil.ReadSource(commandContext(cmd), name)
	}

	in := cmd.InOrStdin()
	if len(args) == 0 && isTerminal(in) {
		return "", &UsageError{Err: errors.New("no input: pass a file, or '-' to read a terminal")}
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(content), nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}
