package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
)

// engineModule is the module path of the Markdown engine.
const engineModule = "github.com/yuin/goldmark"

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the mdtree version and build metadata, the version of the
Markdown engine linked in, and how many rules and presets are available.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, info.Version)
				return err
			}

			logger := log.NewWithOptions(out, log.Options{})
			logger.SetLevel(log.InfoLevel)
			logger.Info("mdtree",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldEngine, engineVersion(),
				logging.FieldGo, runtime.Version(),
				logging.FieldRules, len(goldmark.AvailableRules()),
				logging.FieldPresets, len(goldmark.AvailablePresets()),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}

// engineVersion returns the goldmark version recorded in the binary's build
// info, or "unknown".
func engineVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path != engineModule {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		return dep.Version
	}
	return "unknown"
}
