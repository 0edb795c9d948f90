// Package shell runs external commands for the release playbook.
//
// Key types:
//   - [Runner] is the interface the playbook and prober depend on
//   - [ExecRunner] is the production implementation backed by os/exec
//   - [MockRunner] records invocations for tests
//
// The contract is deliberately narrow: a command's trimmed standard output
// is the only signal callers consume. Exit codes are not inspected; a
// failing git invocation simply yields whatever (possibly empty) output it
// produced, and the operator decides what to do at the next prompt.
package shell

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes argv and returns its standard output with trailing
	// whitespace trimmed. Errors are not reported; see the package doc.
	Run(ctx context.Context, argv ...string) string

	// Interactive executes argv attached to the operator's terminal.
	// Used for spawning the editor on NEWS.md.
	Interactive(ctx context.Context, argv ...string) error
}

// ExecRunner runs commands in the current working directory.
type ExecRunner struct{}

// NewExecRunner creates the production Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, argv ...string) string {
	if len(argv) == 0 {
		return ""
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, _ := cmd.Output()
	return strings.TrimSpace(string(out))
}

func (r *ExecRunner) Interactive(ctx context.Context, argv ...string) error {
	if len(argv) == 0 {
		return nil
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
