// Package debugger implements the interactive debugger the evaluator
// drops into on a runtime error: a line-oriented REPL with bt/up/down/
// show/print/quit commands and empty-line-repeats-previous-command,
// grounded on Backwards/Engine/DebuggerHook.cpp's DefaultDebugger.
package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/token"
)

// New builds a scope.DebugHook that runs an interactive session over
// in/out when invoked. Each call starts fresh at the context's current
// frame, the way EnterDebugger always begins at context.currentFrame.
func New(in io.Reader, out io.Writer) scope.DebugHook {
	reader := bufio.NewReader(in)
	return func(ctx *scope.Context, message string, tok token.Token) error {
		return run(reader, out, ctx, message, tok)
	}
}

func run(in *bufio.Reader, out io.Writer, ctx *scope.Context, message string, tok token.Token) error {
	if message != "" {
		fmt.Fprintf(out, "Entered debugger with message: %s\n", message)
	}

	frame := ctx.Frame()
	printFrame(out, frame, tok)

	var prevLine string
	for {
		line, err := readLine(in, out)
		if err != nil {
			return err
		}
		if line == "" {
			line = prevLine
		}
		if line == "quit" {
			return nil
		}

		switch {
		case line == "down":
			if frame == nil || frame.Prev == nil {
				fmt.Fprintln(out, "Already in bottom-most frame.")
			} else {
				frame = frame.Prev
				printFrame(out, frame, tok)
			}
		case line == "up":
			if frame == nil || frame.Next == nil {
				fmt.Fprintln(out, "Already in top-most frame.")
			} else {
				frame = frame.Next
				printFrame(out, frame, tok)
			}
		case line == "bt":
			backtrace(out, frame, tok)
		case line == "show":
			show(out, ctx, frame)
		case strings.HasPrefix(line, "print"):
			printVar(out, ctx, frame, strings.TrimSpace(strings.TrimPrefix(line, "print")))
		default:
			fmt.Fprintf(out, "Did not understand >%s<.\n", line)
			fmt.Fprintln(out, "Known commands are:")
			fmt.Fprintln(out, "\tquit - exit the debugger and continue running")
			fmt.Fprintln(out, "\tbt - give a back trace to the current stack frame")
			fmt.Fprintln(out, "\tup - go up one stack frame, to the callee")
			fmt.Fprintln(out, "\tdown - go down one stack frame, to the caller")
			fmt.Fprintln(out, "\tshow - show the variables in this stack frame")
			fmt.Fprintln(out, "\tprint variable_name - show the value in the given variable")
		}

		prevLine = line
	}
}

func readLine(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "(debug) ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func frameName(frame *scope.StackFrame) string {
	if frame == nil || frame.Def == nil {
		return "<toplevel>"
	}
	if frame.Def.Name != "" {
		return frame.Def.Name
	}
	return "<anonymous>"
}

func printFrame(out io.Writer, frame *scope.StackFrame, tok token.Token) {
	if frame == nil {
		fmt.Fprintf(out, "In function <toplevel>\n")
		return
	}
	line, col := frame.CallToken.Pos.LineCol()
	fmt.Fprintf(out, "In function >%s< from line %d col %d in %s\n", frameName(frame), line, col, frame.CallToken.File)
	_ = tok
}

func backtrace(out io.Writer, frame *scope.StackFrame, tok token.Token) {
	var lines []string
	for f := frame; f != nil; f = f.Prev {
		line, col := f.CallToken.Pos.LineCol()
		lines = append(lines, fmt.Sprintf("#%d: >%s< from line %d col %d in %s", f.Depth, frameName(f), line, col, f.CallToken.File))
	}
	if len(lines) == 0 {
		lines = append(lines, "#0: >toplevel<")
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}

func show(out io.Writer, ctx *scope.Context, frame *scope.StackFrame) {
	var names []string
	if frame != nil && frame.Def != nil {
		names = append(names, frame.Def.ArgNames...)
		names = append(names, frame.Def.LocalNames...)
		names = append(names, frame.Def.CaptureNames...)
	}
	fmt.Fprintf(out, "These variables are in the current stack frame: %s\n", strings.Join(names, ", "))
	if ctx.Local != nil {
		fmt.Fprintf(out, "These variables are in the current scope: %s\n", strings.Join(ctx.Local.Names(), ", "))
	}
	fmt.Fprintf(out, "These variables are in the global scope: %s\n", strings.Join(ctx.Global.Names(), ", "))
}

// printVar looks name up in the selected frame's args/locals/captures,
// falling back to the local then global scope, and prints its current
// value. Unlike the original's `print`, this accepts only a bare
// variable name rather than a full sub-expression: reparsing an
// arbitrary expression against a mid-stack frame would need a
// SymbolTable injected at that frame's lexical position, which the
// single-pass parser has no entry point for once parsing has finished.
func printVar(out io.Writer, ctx *scope.Context, frame *scope.StackFrame, name string) {
	if name == "" {
		fmt.Fprintln(out, "Didn't understand that.")
		return
	}
	if frame != nil && frame.Def != nil {
		if idx := indexOf(frame.Def.ArgNames, name); idx >= 0 {
			printValue(out, frame.Args[idx], frame.ArgIsSet(idx))
			return
		}
		if idx := indexOf(frame.Def.LocalNames, name); idx >= 0 {
			printValue(out, frame.Local[idx], frame.LocalIsSet(idx))
			return
		}
		if idx := indexOf(frame.Def.CaptureNames, name); idx >= 0 {
			printValue(out, frame.Cap[idx], true)
			return
		}
	}
	if ctx.Local != nil {
		if idx, ok := ctx.Local.Lookup(name); ok {
			v, err := ctx.Local.Get(token.Token{}, idx)
			if err == nil {
				printValue(out, v, true)
				return
			}
		}
	}
	if idx, ok := ctx.Global.Lookup(name); ok {
		v, err := ctx.Global.Get(token.Token{}, idx)
		if err == nil {
			printValue(out, v, true)
			return
		}
	}
	fmt.Fprintf(out, "Error: no variable named %q is visible here.\n", name)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func printValue(out io.Writer, v any, set bool) {
	if !set || v == nil {
		fmt.Fprintln(out, "<unset>")
		return
	}
	if s, ok := v.(fmt.Stringer); ok {
		fmt.Fprintln(out, s.String())
		return
	}
	fmt.Fprintf(out, "%v\n", v)
}
