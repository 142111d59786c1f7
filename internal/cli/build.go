package cli

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
	"github.com/yaklabco/mdtree/pkg/reporter"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// outputDirPermissions is the mode of directories created under --out.
const outputDirPermissions = 0o755

// buildFlags holds the flags of the build command.
type buildFlags struct {
	parserFlags

	outDir         string
	dir            string
	jobs           int
	include        []string
	exclude        []string
	followSymlinks bool
	format         string
	dryRun         bool
}

func newBuildCommand(globals *globalFlags) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [path...]",
		Short: "Render every Markdown file under the given paths to HTML",
		Long: `Render Markdown files to HTML in parallel. Directories are searched
recursively for .md and .markdown files; hidden files and directories are
skipped. Each file is written to --out with the same relative path and an
.html extension.

Examples:
  mdtree build docs --out site
  mdtree build -c gfm -e footnote --exclude 'drafts/**' --out site .
  mdtree build --dry-run --format table docs`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, globals, flags)
		},
	}

	addParserFlags(cmd, &flags.parserFlags)
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "site", "output directory")
	cmd.Flags().StringVarP(&flags.dir, "dir", "C", "", "resolve paths, globs and --out against this directory")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "files rendered at once (0 means one per CPU)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only render paths matching these globs")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "skip paths matching these globs")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "report format: text, table, or json")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "parse and render without writing files")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, globals *globalFlags, flags *buildFlags) error {
	format := config.OutputFormat(flags.format)
	if !format.IsValid() {
		return &UsageError{Err: fmt.Errorf("invalid format %q: use text, table, or json", flags.format)}
	}

	cfg, err := loadConfig(cmd, globals, flags.cliConfig(cmd, globals))
	if err != nil {
		return err
	}

	md, err := buildMarkdown(cfg)
	if err != nil {
		return err
	}
	// A frozen parser is shared by every worker.
	parser := md.Freeze()

	workDir, err := filepath.Abs(cmp.Or(flags.dir, "."))
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	outDir := flags.outDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	ctx := commandContext(cmd)
	opts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   slices.Concat(flags.exclude, outputExclude(workDir, outDir)),
		FollowSymlinks: flags.followSymlinks,
		Jobs:           flags.jobs,
	}

	renderer := &fileRenderer{
		parser:  parser,
		workDir: workDir,
		outDir:  outDir,
		dryRun:  flags.dryRun,
	}
	result, err := runner.Run(ctx, opts, renderer.render)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("build finished",
		logging.FieldPreset, md.Preset(),
		logging.FieldOutput, outDir,
		logging.FieldDuration, result.Stats.Elapsed,
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       string(cfg.Color),
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	if err != nil {
		return err
	}
	if err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d files failed: %w",
			result.Stats.FilesErrored, result.Stats.FilesDiscovered, result.Err())
	}
	return nil
}

// outputExclude keeps the output directory out of discovery when it lies
// inside the working directory.
func outputExclude(workDir, outDir string) []string {
	rel, err := filepath.Rel(workDir, outDir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	rel = filepath.ToSlash(rel)
	return []string{rel, rel + "/**"}
}

// fileRenderer renders one discovered file. It is shared by all workers
// and holds no mutable state.
type fileRenderer struct {
	parser  *goldmark.Parser
	workDir string
	outDir  string
	dryRun  bool
}

func (r *fileRenderer) render(ctx context.Context, path string) (outcome runner.FileOutcome) {
	ctx = logging.WithFields(ctx, logging.FieldPath, path)
	started := time.Now()
	defer func() {
		outcome.Duration = time.Since(started)
		logging.FromContext(ctx).Debug("file rendered",
			logging.FieldNodes, outcome.Nodes,
			logging.FieldDuration, outcome.Duration,
			logging.FieldError, outcome.Error,
		)
	}()

	src, err := fsutil.ReadSource(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.SourceBytes = len(src)

	root, err := r.parser.Tree(src)
	if err != nil {
		outcome.Error = fmt.Errorf("%s: %w", path, err)
		return outcome
	}
	outcome.Nodes = root.Count() + 1

	html, err := r.parser.Render(src)
	if err != nil {
		outcome.Error = fmt.Errorf("%s: %w", path, err)
		return outcome
	}
	outcome.OutputBytes = len(html)

	if r.dryRun {
		return outcome
	}

	target := r.target(path)
	if err := os.MkdirAll(filepath.Dir(target), outputDirPermissions); err != nil {
		outcome.Error = fmt.Errorf("create output directory: %w", err)
		return outcome
	}
	if err := fsutil.WriteAtomic(ctx, target, []byte(html), 0); err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", target, err)
		return outcome
	}
	outcome.Output = target
	return outcome
}

// target maps a source path to its HTML path under the output directory.
// Sources outside the working directory keep only their base name.
func (r *fileRenderer) target(path string) string {
	rel, err := filepath.Rel(r.workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return filepath.Join(r.outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
}
