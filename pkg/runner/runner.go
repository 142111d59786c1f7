package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// ProcessFunc handles one discovered file and reports what it did. It is
// called from several goroutines at once. Failures are reported in
// FileOutcome.Error and do not stop other files.
type ProcessFunc func(ctx context.Context, path string) FileOutcome

// Run discovers files under opts.Paths and passes each to process, with at
// most opts.Jobs files in flight. Outcomes are returned in path order
// regardless of completion order.
func Run(ctx context.Context, opts Options, process ProcessFunc) (*Result, error) {
	started := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// Each worker owns one slot, so no locking is needed.
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcome := process(groupCtx, path)
			outcome.Path = path
			outcomes[i] = outcome
			done[i] = true
			return nil
		})
	}
	_ = group.Wait()

	for i := range files {
		if done[i] {
			result.accumulate(outcomes[i])
		}
	}
	result.Stats.Elapsed = time.Since(started)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
