package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"

	"github.com/cellscript/cellscript/internal/logging"
	"github.com/cellscript/cellscript/lang/cell"
	cellparser "github.com/cellscript/cellscript/lang/cell/parser"
)

// Cell evaluates a single Cell formula given on the command line,
// homed at A1, with the standard library installed and no other cells
// occupied.
func (c *Cmd) Cell(ctx context.Context, stdio mainer.Stdio, args []string) error {
	log := logging.New(stdio.Stdout, stdio.Stderr)
	formula := strings.Join(args, " ")

	rctx, err := newRunContext(log)
	if err != nil {
		return err
	}

	reg := cell.NewRegistry()
	p := cellparser.New("<cell>", formula, reg, 1, 1)
	expr, err := p.ParseExpression()
	if err != nil {
		return log.Error(fmt.Errorf("cell: %w", err))
	}

	sheet := cell.NewSheet()
	rctx.CellEval = cell.NewEvaluator(sheet, reg)

	v, err := expr.Evaluate(rctx, 1, 1)
	if err != nil {
		return log.Error(fmt.Errorf("cell: %w", err))
	}
	log.Infof("%s\n", v.String())
	return nil
}
