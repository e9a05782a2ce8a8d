// Package exec provides an interface for command execution.
package exec

import (
	"context"
)

// CommandRunner defines the interface for running external commands.
// This abstraction allows mocking command execution in tests and keeps
// the rest of the codebase free of subprocess-library specifics.
type CommandRunner interface {
	// Run executes a command and returns combined stdout/stderr output.
	// The working directory is set to workDir if non-empty. The context
	// bounds the command's lifetime; when it expires the process is
	// killed and the context error is returned alongside any partial
	// output.
	Run(ctx context.Context, workDir string, name string, args ...string) (output []byte, err error)
}
