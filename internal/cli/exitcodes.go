package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdtree/internal/configloader"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
)

// Exit codes for mdtree, following sysexits.h.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates bad configuration or input data: unknown
	// presets or rules, invalid config files, non-UTF-8 input.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// UsageError marks an error caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// usageArgs marks positional argument errors from validate as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	var validationErr *configloader.ValidationError
	var pathErr *fs.PathError

	switch {
	case errors.As(err, &usageErr):
		return ExitInvalidUsage
	case errors.Is(err, goldmark.ErrConfiguration),
		errors.Is(err, goldmark.ErrInvalidUTF8),
		errors.As(err, &validationErr),
		errors.Is(err, errConfigLoad):
		return ExitConfigError
	case errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
