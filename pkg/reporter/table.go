package reporter

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/yaklabco/mdtree/internal/ui/pretty"
	"github.com/yaklabco/mdtree/pkg/runner"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// tableReporter formats results as one row per file.
type tableReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
}

func newTableReporter(opts Options) *tableReporter {
	return &tableReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		width:  getTerminalWidth(opts.Writer),
	}
}

func (r *tableReporter) Report(_ context.Context, result *runner.Result) error {
	if result == nil || len(result.Files) == 0 {
		if !r.opts.ShowSummary {
			return nil
		}
		_, err := fmt.Fprintln(r.opts.Writer, r.styles.Dim.Render("No Markdown files found."))
		return err
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateRows = false
	tbl.SetAllowedRowLength(r.width)
	tbl.AppendHeader(table.Row{"FILE", "STATUS", "SOURCE", "OUTPUT", "NODES", "TIME"})

	for _, file := range result.Files {
		status := r.styles.Success.Render("ok")
		if file.Error != nil {
			status = r.styles.Error.Render(file.Error.Error())
		}
		tbl.AppendRow(table.Row{
			r.opts.displayPath(file.Path),
			status,
			humanize.Bytes(uint64(max(file.SourceBytes, 0))),
			humanize.Bytes(uint64(max(file.OutputBytes, 0))),
			file.Nodes,
			file.Duration.String(),
		})
	}

	if r.opts.ShowSummary {
		stats := result.Stats
		tbl.AppendFooter(table.Row{
			fmt.Sprintf("%d files", stats.FilesDiscovered),
			fmt.Sprintf("%d failed", stats.FilesErrored),
			humanize.Bytes(uint64(max(stats.SourceBytes, 0))),
			humanize.Bytes(uint64(max(stats.OutputBytes, 0))),
			stats.Nodes,
			stats.Elapsed.String(),
		})
	}

	_, err := fmt.Fprintln(r.opts.Writer, tbl.Render())
	return err
}

// getTerminalWidth returns the width of the terminal behind writer, or
// defaultTermWidth.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
