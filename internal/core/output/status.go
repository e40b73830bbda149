package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen).SprintFunc()
	noopColor    = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
)

// Success prints a green status line.
func Success(w io.Writer, format string, a ...interface{}) {
	_, _ = fmt.Fprintln(w, successColor(fmt.Sprintf(format, a...)))
}

// NothingToDo prints the yellow line used when an operation found the
// filesystem already in the requested state.
func NothingToDo(w io.Writer) {
	_, _ = fmt.Fprintln(w, noopColor("Nothing to do."))
}

// Failure formats a red error line. It returns the string rather than
// printing it, because CLI actions hand it to cli.Exit.
func Failure(format string, a ...interface{}) string {
	return errorColor(fmt.Sprintf(format, a...))
}
