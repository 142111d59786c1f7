// Package fsutil reads Markdown sources and writes generated files for
// mdtree. Writes go through a temp file and rename so a failed write never
// leaves a truncated file behind.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sentinel errors for error categorization via errors.Is. Failures on a
// path are reported as *fs.PathError wrapping one of these.
var (
	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge indicates a source exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
)

// MaxSourceSize bounds the size of a Markdown source read by ReadSource.
const MaxSourceSize int64 = 64 << 20

// ReadSource reads a Markdown source file. Directories and files larger
// than MaxSourceSize are rejected before any content is read.
func ReadSource(ctx context.Context, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("read source: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	if stat.IsDir() {
		return "", &fs.PathError{Op: "read", Path: path, Err: ErrIsDirectory}
	}
	if stat.Size() > MaxSourceSize {
		return "", &fs.PathError{Op: "read", Path: path, Err: ErrTooLarge}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(content), nil
}
