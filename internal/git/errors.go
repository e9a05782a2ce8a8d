package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout indicates a git command exceeded its configured timeout.
// The working directory may be left in an indeterminate state and
// should be inspected before further operations.
var ErrTimeout = errors.New("git command timed out")

// CommandError carries the details of a failed git invocation so
// callers can decide whether the failure is expected (a conflicting
// merge) or fatal.
type CommandError struct {
	// Args are the git arguments, identity flags excluded.
	Args []string
	// Output is the combined stdout/stderr of the command.
	Output string
	// ExitCode is the subprocess exit code, or -1 when unavailable.
	ExitCode int
	// Err is the underlying cause (ErrTimeout for expired commands).
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err was caused by a command timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
