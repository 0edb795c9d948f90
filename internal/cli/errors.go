package cli

import "fmt"

// ExitError represents a command failure with a specific exit code.
//
// It lets Cobra RunE functions signal non-zero exits without calling
// os.Exit directly, keeping command behavior testable. [Execute] extracts
// the code and performs the actual process exit.
type ExitError struct {
	// Code is the exit code to return to the shell.
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError checks if an error is an [ExitError] and extracts its code.
// It returns (0, false) for nil or non-ExitError errors.
func IsExitError(err error) (int, bool) {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code, true
	}
	return 0, false
}
