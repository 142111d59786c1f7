package runner

import (
	"errors"
	"time"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the absolute path of the source file.
	Path string

	// Output is the path written for this file, if any.
	Output string

	// SourceBytes and OutputBytes are the sizes read and written.
	SourceBytes int
	OutputBytes int

	// Nodes is the number of tree nodes, when the file was parsed into a
	// tree.
	Nodes int

	// Duration is the time spent on the file.
	Duration time.Duration

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files processed without error.
	FilesProcessed int

	// FilesErrored is the number of files that failed.
	FilesErrored int

	// SourceBytes and OutputBytes sum the sizes of processed files.
	SourceBytes int
	OutputBytes int

	// Nodes sums the tree nodes of processed files.
	Nodes int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per discovered file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Err joins the errors of all failed files, or returns nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			errs = append(errs, outcome.Error)
		}
	}
	return errors.Join(errs...)
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.SourceBytes += outcome.SourceBytes
	r.Stats.OutputBytes += outcome.OutputBytes
	r.Stats.Nodes += outcome.Nodes
}
