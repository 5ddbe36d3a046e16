package maincmd

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"

	"github.com/cellscript/cellscript/internal/logging"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/script"
	"github.com/cellscript/cellscript/lang/script/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	log := logging.New(stdio.Stdout, stdio.Stderr)
	for _, file := range args {
		if err := parseFile(log, file); err != nil {
			return err
		}
	}
	return nil
}

func parseFile(log *logging.Logger, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return log.Error(fmt.Errorf("%s: %w", file, err))
	}
	global, local := scope.NewScope(), scope.NewScope()
	p := parser.New(file, string(src), global, local)
	prog, err := p.ParseProgram()
	if err != nil {
		return log.Error(fmt.Errorf("%s: %w", file, err))
	}
	dumpNode(log, prog, 0)
	return nil
}

// dumpNode prints node's dynamic type and its Statement/Expression
// fields recursively, indented by depth; it walks by reflection instead
// of a hand-written visitor per node type so every tree shape this
// language can produce (statements, expressions, nested statement
// lists) prints without the dumper needing updates when a new node type
// is added.
func dumpNode(log *logging.Logger, node any, depth int) {
	if node == nil || reflect.ValueOf(node).IsZero() {
		return
	}
	indent := strings.Repeat("  ", depth)
	v := reflect.ValueOf(node)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			log.Infof("%s<nil>\n", indent)
			return
		}
		v = v.Elem()
	}
	log.Infof("%s%T\n", indent, node)
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Name == "Tok" {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Slice:
			for j := 0; j < fv.Len(); j++ {
				dumpChild(log, f.Name, fv.Index(j).Interface(), depth+1)
			}
		default:
			dumpChild(log, f.Name, fv.Interface(), depth+1)
		}
	}
}

func dumpChild(log *logging.Logger, name string, child any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch child.(type) {
	case script.Statement, script.Expression:
		log.Infof("%s%s:\n", indent, name)
		dumpNode(log, child, depth+1)
	default:
		log.Infof("%s%s: %v\n", indent, name, child)
	}
}
