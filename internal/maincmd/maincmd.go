// Package maincmd wires the cellscript binary's subcommands (tokenize,
// parse, run, debug, cell) onto a mainer.Cmd, the way
// github.com/mna/mainer expects: a flag-tagged struct, a Validate
// method picking the command function by reflection, and a Main method
// that parses flags and dispatches.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"

	"github.com/cellscript/cellscript/internal/config"
	"github.com/cellscript/cellscript/internal/logging"
	"github.com/cellscript/cellscript/lang/numeric"
)

const binName = "cellscript"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Interpreter for the cellscript imperative/spreadsheet language pair.

The <command> can be one of:
       tokenize                  Scan a Script source file and print its
                                 tokens.
       parse                     Parse a Script source file and print
                                 the resulting statement tree.
       run                       Parse and execute a Script source
                                 file.
       debug                     Run a Script source file with the
                                 debugger attached, dropping to an
                                 interactive prompt on any runtime
                                 error.
       cell                      Evaluate a single Cell formula given
                                 on the command line.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Numeric backend, precision and rounding mode are read from the
environment (CELLSCRIPT_BACKEND, CELLSCRIPT_PRECISION,
CELLSCRIPT_ROUNDING); see internal/config.

More information on the cellscript repository:
       https://github.com/cellscript/cellscript
`, binName)
)

// Cmd is the mainer entry point: SetArgs/SetFlags/Validate/Main are all
// mainer's contract for a runnable command struct.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	if cmdName == "tokenize" || cmdName == "parse" || cmdName == "run" || cmdName == "debug" {
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one file must be provided", cmdName)
		}
	}
	if cmdName == "cell" && len(c.args[1:]) == 0 {
		return fmt.Errorf("cell: a formula must be provided")
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds maps each exported method of v with the right signature
// ((context.Context, mainer.Stdio, []string) error) to its lowercased
// name, so adding a method here is all a new command needs.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

// newBackend reads the process numeric configuration from the
// environment, building the backend every command evaluates through.
func newBackend(log *logging.Logger) (numeric.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, log.Error(err)
	}
	b, err := cfg.Backend()
	if err != nil {
		return nil, log.Error(err)
	}
	return b, nil
}
