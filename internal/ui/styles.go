// Package ui provides terminal output styling for maintainer-tools.
//
// The original shell-script heritage of this tool used raw ANSI escape
// constants; here the same palette is a static lipgloss style table with no
// lifecycle. All user-facing messages go through [Errorf], [Infof] and [OKf]
// so that every prompt and status line carries the same prefix convention.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleError = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleInfo  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleOK    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))

	// Bold is used for free-form emphasis, e.g. the config box headers
	// and step prompts.
	Bold = lipgloss.NewStyle().Bold(true)
)

// Out is the destination for all message helpers. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

// Errorf prints an error message. The caller decides whether to exit;
// precondition failures exit non-zero, step-local failures do not.
func Errorf(format string, args ...any) {
	fmt.Fprintf(Out, "%s %s\n", styleError.Render("Error:"), fmt.Sprintf(format, args...))
}

// Infof prints an advisory message. Execution continues.
func Infof(format string, args ...any) {
	fmt.Fprintf(Out, "%s %s\n", styleInfo.Render("Info:"), fmt.Sprintf(format, args...))
}

// OKf prints a success message.
func OKf(format string, args ...any) {
	fmt.Fprintf(Out, "%s %s\n", styleOK.Render("OK:"), fmt.Sprintf(format, args...))
}
