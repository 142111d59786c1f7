// Package runner discovers Markdown files and processes them concurrently.
package runner

// Options controls discovery and concurrency of a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories to process.
	// If empty, defaults to the working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// glob patterns. If empty, the process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions, lowercase with a leading
	// dot, considered Markdown. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to
	// WorkingDir. Empty includes every file with a Markdown extension.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of files processed at once. 0 or
	// negative means runtime.NumCPU().
	Jobs int
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
