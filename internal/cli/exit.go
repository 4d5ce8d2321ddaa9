package cli

import (
	stderrors "errors"
	"fmt"
)

// Process exit codes
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitFatal      = 2
)

// ExitError carries a process exit status. An ExitError without a wrapped
// error has already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to the process exit status.
// Anything but an ExitError is a configuration or usage failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFatal
}

// Silent reports whether err needs no message beyond what was printed
func Silent(err error) bool {
	var exitErr *ExitError
	return stderrors.As(err, &exitErr) && exitErr.Err == nil
}
