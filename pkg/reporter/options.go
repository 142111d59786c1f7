package reporter

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yaklabco/mdtree/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized output: auto, always or never.
	Color string

	// ShowSummary displays aggregate statistics after the file list.
	ShowSummary bool

	// WorkingDir is the directory to make paths relative to. If empty,
	// paths are printed as they are.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      config.FormatText,
		Color:       "auto",
		ShowSummary: true,
	}
}

// displayPath returns path relative to the working directory when it lies
// below it.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		return path
	}
	return rel
}
