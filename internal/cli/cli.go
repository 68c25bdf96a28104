// Package cli implements the memory maintenance commands. Each binary
// under cmd/ wraps one command built here; exit codes are part of the
// compatibility contract, so run errors carry their code explicitly.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExitError is an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// fail wraps an error with an exit code.
func fail(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

func failf(code int, format string, args ...interface{}) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// Execute runs a command and exits the process with the mapped code.
// Errors without an explicit code exit 1 (invalid arguments).
func Execute(cmd *cobra.Command) {
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		code := 1
		var xe *ExitError
		if errors.As(err, &xe) {
			code = xe.Code
		}
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(code)
	}
}

// workspaceRoot is the invoking shell's working directory; there is no
// other configuration source for the root.
func workspaceRoot() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", failf(1, "determine working directory: %v", err)
	}
	return root, nil
}
