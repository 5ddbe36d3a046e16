package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/cellscript/cellscript/internal/logging"
	"github.com/cellscript/cellscript/lang/debugger"
)

func (c *Cmd) Debug(ctx context.Context, stdio mainer.Stdio, args []string) error {
	log := logging.New(stdio.Stdout, stdio.Stderr)
	hook := debugger.New(stdio.Stdin, stdio.Stdout)
	for _, file := range args {
		if err := runFile(log, file, hook); err != nil {
			return err
		}
	}
	return nil
}
