package reporter

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// textReporter prints one line per file and a closing summary.
type textReporter struct {
	opts   Options
	styles *pretty.Styles
}

func newTextReporter(opts Options) *textReporter {
	return &textReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

func (r *textReporter) Report(_ context.Context, result *runner.Result) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			_, err = fmt.Fprintln(bw, r.styles.Dim.Render("No Markdown files found."))
		}
		return err
	}

	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)
		if file.Error != nil {
			fmt.Fprintf(bw, "%s %s: %s\n", r.styles.Error.Render("✗"), path, file.Error)
			continue
		}
		line := fmt.Sprintf("%s %s", r.styles.Success.Render("✓"), path)
		if file.Output != "" {
			line += " → " + r.opts.displayPath(file.Output)
		}
		fmt.Fprintln(bw, line+" "+r.styles.Dim.Render(fileDetail(file)))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, summaryLine(r.styles, result.Stats))
	}
	return nil
}

// fileDetail describes the sizes of one processed file.
func fileDetail(file runner.FileOutcome) string {
	detail := "(" + humanize.Bytes(uint64(max(file.SourceBytes, 0)))
	if file.OutputBytes > 0 {
		detail += " → " + humanize.Bytes(uint64(file.OutputBytes))
	}
	if file.Nodes > 0 {
		detail += fmt.Sprintf(", %d nodes", file.Nodes)
	}
	return detail + ")"
}

// summaryLine formats aggregate statistics as one line, for example
// "12 files, 1 failed, 40 kB read, 61 kB written in 35ms".
func summaryLine(styles *pretty.Styles, stats runner.Stats) string {
	files := fmt.Sprintf("%d files", stats.FilesDiscovered)
	if stats.FilesDiscovered == 1 {
		files = "1 file"
	}
	line := styles.Bold.Render(files)
	if stats.FilesErrored > 0 {
		line += ", " + styles.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored))
	}
	line += ", " + humanize.Bytes(uint64(max(stats.SourceBytes, 0))) + " read"
	if stats.OutputBytes > 0 {
		line += ", " + humanize.Bytes(uint64(stats.OutputBytes)) + " written"
	}
	return line + " in " + stats.Elapsed.Round(time.Millisecond).String()
}
