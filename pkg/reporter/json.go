package reporter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/mdtree/pkg/runner"
)

// jsonReporter writes the result as one JSON document.
type jsonReporter struct {
	opts Options
}

func newJSONReporter(opts Options) *jsonReporter {
	return &jsonReporter{opts: opts}
}

type jsonFile struct {
	Path        string `json:"path"`
	Output      string `json:"output,omitempty"`
	SourceBytes int    `json:"source_bytes"`
	OutputBytes int    `json:"output_bytes,omitempty"`
	Nodes       int    `json:"nodes,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}

type jsonSummary struct {
	Files       int   `json:"files"`
	Processed   int   `json:"processed"`
	Failed      int   `json:"failed"`
	SourceBytes int   `json:"source_bytes"`
	OutputBytes int   `json:"output_bytes"`
	Nodes       int   `json:"nodes"`
	ElapsedMS   int64 `json:"elapsed_ms"`
}

type jsonReport struct {
	Files   []jsonFile  `json:"files"`
	Summary jsonSummary `json:"summary"`
}

func (r *jsonReporter) Report(_ context.Context, result *runner.Result) error {
	report := jsonReport{Files: []jsonFile{}}
	if result != nil {
		for _, file := range result.Files {
			entry := jsonFile{
				Path:        r.opts.displayPath(file.Path),
				Output:      r.opts.displayPath(file.Output),
				SourceBytes: file.SourceBytes,
				OutputBytes: file.OutputBytes,
				Nodes:       file.Nodes,
				DurationMS:  file.Duration.Milliseconds(),
			}
			if file.Error != nil {
				entry.Error = file.Error.Error()
			}
			report.Files = append(report.Files, entry)
		}
		stats := result.Stats
		report.Summary = jsonSummary{
			Files:       stats.FilesDiscovered,
			Processed:   stats.FilesProcessed,
			Failed:      stats.FilesErrored,
			SourceBytes: stats.SourceBytes,
			OutputBytes: stats.OutputBytes,
			Nodes:       stats.Nodes,
			ElapsedMS:   stats.Elapsed.Milliseconds(),
		}
	}

	enc := json.NewEncoder(r.opts.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
