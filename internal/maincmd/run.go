package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/cellscript/cellscript/internal/logging"
	"github.com/cellscript/cellscript/lang/script/parser"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/stdlib"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	log := logging.New(stdio.Stdout, stdio.Stderr)
	for _, file := range args {
		if err := runFile(log, file, nil); err != nil {
			return err
		}
	}
	return nil
}

// runFile parses and executes one Script source file; debugHook, when
// non-nil, is attached to the context before the program runs, the way
// the `debug` command enables interactive inspection on any runtime
// error.
func runFile(log *logging.Logger, file string, debugHook scope.DebugHook) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return log.Error(fmt.Errorf("%s: %w", file, err))
	}

	rctx, err := newRunContext(log)
	if err != nil {
		return err
	}
	rctx.Debugger = debugHook

	p := parser.New(file, string(src), rctx.Global, rctx.Local)
	prog, err := p.ParseProgram()
	if err != nil {
		return log.Error(fmt.Errorf("%s: %w", file, err))
	}

	if _, err := prog.Execute(rctx); err != nil {
		return log.Error(fmt.Errorf("%s: %w", file, err))
	}
	return nil
}

// newRunContext reads the process numeric configuration, builds a
// Context over it with the standard library installed, and wires the
// CLI's own stdout/stderr as the context's output streams.
func newRunContext(log *logging.Logger) (*scope.Context, error) {
	b, err := newBackend(log)
	if err != nil {
		return nil, err
	}
	rctx := scope.NewContext(b)
	rctx.Stdout, rctx.Stderr = log.Out, log.Err
	stdlib.Install(rctx)
	return rctx, nil
}
