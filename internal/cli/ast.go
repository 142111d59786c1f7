package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/mdast"
)

// astFlags holds the dump options of the ast command.
type astFlags struct {
	parserFlags

	attrs   bool
	srcmap  bool
	meta    bool
	content bool
	indent  int
	kind    string
	verbose bool
	stats   bool
}

func newASTCommand(globals *globalFlags) *cobra.Command {
	flags := &astFlags{}

	cmd := &cobra.Command{
		Use:   "ast [file|-]",
		Short: "Print the syntax tree of a Markdown document",
		Long: `Parse a Markdown file, or standard input, and print its syntax tree.

Each node is printed as <kind attr="value" srcmap="start:end">, with its
metadata and content on the following lines when requested.

Examples:
  mdtree ast README.md
  mdtree ast -v --content -c gfm notes.md
  mdtree ast --kind fence --meta README.md`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd, args, globals, flags)
		},
	}

	addParserFlags(cmd, &flags.parserFlags)
	cmd.Flags().BoolVar(&flags.attrs, "attrs", true, "show rendering attributes")
	cmd.Flags().BoolVar(&flags.srcmap, "srcmap", true, "show byte spans")
	cmd.Flags().BoolVar(&flags.meta, "meta", false, "show node metadata")
	cmd.Flags().BoolVar(&flags.content, "content", false, "show node content")
	cmd.Flags().IntVar(&flags.indent, "indent", config.DefaultIndent, "spaces per depth level")
	cmd.Flags().StringVar(&flags.kind, "kind", "", "only print subtrees rooted at nodes of this kind")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "show node metadata (same as --meta)")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print node statistics after the tree (per kind with -v)")

	return cmd
}

// cliConfig adds the dump flags the user set to the parser flags.
func (f *astFlags) cliConfig(cmd *cobra.Command, globals *globalFlags) *config.Config {
	cfg := f.parserFlags.cliConfig(cmd, globals)
	changed := cmd.Flags().Changed

	if changed("attrs") {
		cfg.AST.Attrs = config.Bool(f.attrs)
	}
	if changed("srcmap") {
		cfg.AST.Srcmap = config.Bool(f.srcmap)
	}
	if changed("meta") {
		cfg.AST.Meta = config.Bool(f.meta)
	}
	if f.verbose {
		cfg.AST.Meta = config.Bool(true)
	}
	if changed("content") {
		cfg.AST.Content = config.Bool(f.content)
	}
	if changed("indent") {
		cfg.AST.Indent = f.indent
	}
	return cfg
}

func runAST(cmd *cobra.Command, args []string, globals *globalFlags, flags *astFlags) error {
	var kind mdast.NodeKind
	if flags.kind != "" {
		parsed, ok := mdast.ParseNodeKind(flags.kind)
		if !ok {
			return &UsageError{Err: fmt.Errorf("unknown node kind %q", flags.kind)}
		}
		kind = parsed
	}

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

	root, err := md.Tree(src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), out))
	opts := prettyOptions(cfg.AST)

	subtrees := []*mdast.Node{root}
	if flags.kind != "" {
		subtrees = mdast.FindByKind(root, kind)
	}

	var builder strings.Builder
	for _, node := range subtrees {
		builder.WriteString(styles.FormatTree(node, opts))
	}
	if flags.stats {
		stats := pretty.CollectTreeStats(root, len(src))
		if flags.verbose {
			builder.WriteString(styles.FormatSummary(stats))
		} else {
			builder.WriteString(styles.FormatSummaryOneLine(stats))
		}
	}

	if _, err := io.WriteString(out, builder.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// prettyOptions converts resolved dump settings into tree dump options.
func prettyOptions(ast config.ASTConfig) mdast.PrettyOptions {
	opts := mdast.DefaultPrettyOptions()
	opts.Attrs = config.BoolValue(ast.Attrs)
	opts.Srcmap = config.BoolValue(ast.Srcmap)
	opts.Meta = config.BoolValue(ast.Meta)
	opts.Content = config.BoolValue(ast.Content)
	if ast.Indent > 0 {
		opts.Indent = ast.Indent
	}
	return opts
}
