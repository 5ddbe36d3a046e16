package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/cellscript/cellscript/internal/logging"
	lex "github.com/cellscript/cellscript/lang/script/lexer"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	log := logging.New(stdio.Stdout, stdio.Stderr)
	for _, file := range args {
		if err := tokenizeFile(log, file); err != nil {
			return err
		}
	}
	return nil
}

func tokenizeFile(log *logging.Logger, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return log.Error(fmt.Errorf("%s: %w", file, err))
	}
	l := lex.New(file, string(src))
	for {
		tok := l.Next()
		log.Infof("%s:%d:%d: kind=%d %q\n", file, tok.Line, tok.Col, tok.Kind, tok.Value)
		if tok.Kind == lex.EOF || tok.Kind == lex.ILLEGAL {
			break
		}
	}
	return nil
}
