package cli

import (
	"context"
	"errors"
	"io"

	"github.com/vk/playbookgrid/internal/app"
	"github.com/vk/playbookgrid/internal/hcl_adapter"
	"github.com/vk/playbookgrid/internal/planner"
	"github.com/vk/playbookgrid/internal/validator"
)

// Exit codes returned through ExitError.
const (
	ExitFailure    = 1
	ExitUsage      = 2
	ExitValidation = 3
	ExitPlanning   = 4
)

// Version is the application version, set at build time with
// -ldflags "-X github.com/vk/playbookgrid/internal/cli.Version=1.2.3".
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Execute runs the command line described by args. Command output goes to
// out; logs and usage errors go to errOut.
func Execute(ctx context.Context, out, errOut io.Writer, args []string, opts ...app.Option) error {
	root := newRootCmd(out, errOut, hcl_adapter.NewLoader(), opts...)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before a command runs is a usage problem.
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// exitError maps an application error to its exit code.
func exitError(err error) *ExitError {
	code := ExitFailure
	switch {
	case errors.Is(err, validator.ErrSchema),
		errors.Is(err, validator.ErrDependency),
		errors.Is(err, app.ErrTooManySteps),
		errors.Is(err, app.ErrRunMismatch):
		code = ExitValidation
	case errors.Is(err, planner.ErrInfeasible),
		errors.Is(err, planner.ErrUnschedulable):
		code = ExitPlanning
	case errors.Is(err, app.ErrMissingRun):
		code = ExitUsage
	}
	return &ExitError{Code: code, Message: err.Error()}
}
