// Package logging centralizes the CLI's diagnostic output: every
// maincmd command reports errors and progress notes through a Logger
// rather than calling fmt.Fprintf on stdio directly, so the format
// stays consistent across tokenize/parse/run/debug/cell.
package logging

import (
	"fmt"
	"io"
)

// Logger writes leveled messages to a pair of streams; Errorf always
// goes to Err, Infof always to Out.
type Logger struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) *Logger {
	return &Logger{Out: out, Err: err}
}

func (l *Logger) Infof(format string, args ...any) {
	fmt.Fprintf(l.Out, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	fmt.Fprintf(l.Err, "error: "+format+"\n", args...)
}

// Error prints err's message if it is non-nil, then returns it
// unchanged, the way each maincmd command reports its own failure
// before returning it to Cmd.Main for the exit code.
func (l *Logger) Error(err error) error {
	if err != nil {
		fmt.Fprintf(l.Err, "%s\n", err)
	}
	return err
}
