package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHTMLCommand(globals *globalFlags) *cobra.Command {
	flags := &parserFlags{}

	cmd := &cobra.Command{
		Use:   "html [file|-]",
		Short: "Render Markdown to HTML",
		Long: `Render a Markdown file, or standard input, to HTML.

Examples:
  mdtree html README.md
  mdtree html -c gfm -e footnote,attrs notes.md
  cat notes.md | mdtree html --xhtml=false -`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, globals, flags.cliConfig(cmd, globals))
			if err != nil {
				return err
			}

			md, err := buildMarkdown(cfg)
			if err != nil {
				return err
			}

			src, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			html, err := md.Render(src)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprint(cmd.OutOrStdout(), html); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	addParserFlags(cmd, flags)

	return cmd
}
