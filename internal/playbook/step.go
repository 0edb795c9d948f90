// Package playbook implements the interactive release checklist: a step
// executor that gates each action on operator confirmation, and the fixed
// sequence of release steps built on top of it.
package playbook

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/osbuild/maintainer-tools/internal/shell"
	"github.com/osbuild/maintainer-tools/internal/ui"
)

// Outcome is the operator's decision for one step.
type Outcome int

const (
	// Accepted means the step's command (if any) was executed.
	Accepted Outcome = iota
	// Skipped means the step's side effect must not happen; the playbook
	// advances to the next step.
	Skipped
	// Aborted means the operator stopped the playbook. An abort is not an
	// error; the process terminates with a zero exit code.
	Aborted
)

// Step is one named action of the playbook.
//
// Command is executed on acceptance. When Verify is also set, it runs after
// Command and its output is what gets reported; Command's own output is
// discarded for display. This mirrors dual-command steps where the primary
// performs a side effect and the verify command shows the resulting state,
// e.g. `git checkout -b ...` followed by `git branch --show-current`.
type Step struct {
	Description string
	Command     []string
	Verify      []string
}

// Executor prompts the operator and runs accepted steps.
type Executor struct {
	runner shell.Runner
	in     *bufio.Scanner
}

// NewExecutor creates an Executor reading operator decisions from in,
// normally os.Stdin.
func NewExecutor(runner shell.Runner, in io.Reader) *Executor {
	return &Executor{runner: runner, in: bufio.NewScanner(in)}
}

// Confirm presents a step and reads the operator's decision: "y" accepts,
// "s" skips, "q", "n" or an empty line aborts. Any other input re-prompts.
func (e *Executor) Confirm(ctx context.Context, step Step) Outcome {
	for {
		fmt.Fprintf(ui.Out, "%s %s [y/s/N] ", ui.Bold.Render("Step:"), step.Description)
		if !e.in.Scan() {
			// EOF counts as an operator stop.
			ui.Infof("Release playbook canceled.")
			return Aborted
		}

		switch e.in.Text() {
		case "y":
			e.execute(ctx, step)
			return Accepted
		case "s":
			ui.Infof("Step skipped.")
			return Skipped
		case "", "n", "N", "q":
			ui.Infof("Release playbook canceled.")
			return Aborted
		default:
			ui.Infof("Please answer with 'y', 's' or 'N'.")
		}
	}
}

func (e *Executor) execute(ctx context.Context, step Step) {
	if step.Command == nil {
		return
	}
	out := e.runner.Run(ctx, step.Command...)
	if step.Verify != nil {
		out = e.runner.Run(ctx, step.Verify...)
	}
	ui.OKf("\n%s", out)
}
