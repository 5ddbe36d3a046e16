package script_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellscript/cellscript/lang/numeric"
	scriptparser "github.com/cellscript/cellscript/lang/script/parser"
	"github.com/cellscript/cellscript/lang/scope"
	"github.com/cellscript/cellscript/lang/stdlib"
)

func newProgramContext() (*scope.Context, *bytes.Buffer) {
	ctx := scope.NewContext(numeric.NewDecimalBackend())
	var out bytes.Buffer
	ctx.Stdout = &out
	stdlib.Install(ctx)
	return ctx, &out
}

func runProgram(t *testing.T, src string) string {
	t.Helper()
	ctx, out := newProgramContext()
	p := scriptparser.New("<test>", src, ctx.Global, ctx.Local)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	_, err = prog.Execute(ctx)
	require.NoError(t, err)
	return out.String()
}

func TestIfStatementBranchesOnCondition(t *testing.T) {
	src := `if 7 < 5 then call Info("True") else call Info("False") end
if 5 < 7 then call Info("True") else call Info("False") end`
	out := runProgram(t, src)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{"INFO: False", "INFO: True"}, lines)
}

func TestRecursiveFunctionLiteralComputesFactorial(t *testing.T) {
	src := `call Info(ToString(function fib (y) is if y > 1 then return fib(y - 1) * y else return 1 end end (5)))`
	out := runProgram(t, src)
	assert.Equal(t, "INFO: 120\n", out)
}

func TestAggregatesWalkArrayLiterals(t *testing.T) {
	src := `call Info(ToString(SUM({1; 2; 3; 4})))
call Info(ToString(COUNT({1; 2; 3; 4})))
call Info(ToString(MAX({5; 2; 9; 1})))
call Info(ToString(MIN({5; 2; 9; 1})))
call Info(ToString(AVERAGE({2; 4; 6})))`
	out := runProgram(t, src)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{
		"INFO: 10",
		"INFO: 4",
		"INFO: 9",
		"INFO: 1",
		"INFO: 4",
	}, lines)
}

func TestSelectAlsoCaseFallsThroughUntilABreakingArm(t *testing.T) {
	src := `select 5 from
   case 1 is
      call Info("one")
   also case 5 is
      call Info("five")
   also case 6 is
      call Info("six")
   case 7 is
      call Info("seven")
end`
	out := runProgram(t, src)
	assert.Equal(t, "INFO: five\nINFO: six\n", out)
}

func TestSelectFromToRangeCaseMatchesInclusively(t *testing.T) {
	src := `select 7 from
   case from 1 to 10 is
      call Info("in range")
   case else is
      call Info("out of range")
end
select 50 from
   case from 1 to 10 is
      call Info("in range")
   case else is
      call Info("out of range")
end`
	out := runProgram(t, src)
	assert.Equal(t, "INFO: in range\nINFO: out of range\n", out)
}

func TestEvalOfValidExpressionReturnsItsValue(t *testing.T) {
	src := `call Info(ToString(Eval("2 + 3")))`
	out := runProgram(t, src)
	assert.Equal(t, "INFO: 5\n", out)
}

func TestEvalOfMalformedExpressionRaisesTypedOperationError(t *testing.T) {
	src := `call Info(ToString(Eval("2 + 3 end ")))`
	ctx, _ := newProgramContext()
	p := scriptparser.New("<test>", src, ctx.Global, ctx.Local)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	_, err = prog.Execute(ctx)
	require.Error(t, err)
}

func TestShortCircuitAndDoesNotEvaluateRightOperandThatThrows(t *testing.T) {
	src := `call Info(ToString(0 and Eval("2 + 3 end ")))`
	out := runProgram(t, src)
	assert.Equal(t, "INFO: 0\n", out)
}

func TestShortCircuitOrDoesNotEvaluateRightOperandThatThrows(t *testing.T) {
	src := `call Info(ToString(1 or Eval("2 + 3 end ")))`
	out := runProgram(t, src)
	assert.Equal(t, "INFO: 1\n", out)
}

func TestLabeledBreakTerminatesOnlyTheLabeledLoop(t *testing.T) {
	src := `set n to 0
outer: for i from 1 to 3 do
  for j from 1 to 3 do
    if j = 2 then
      break outer
    end
    set n to n + 1
  end
end
call Info(ToString(n))`
	out := runProgram(t, src)
	assert.Equal(t, "INFO: 1\n", out)
}

func TestNestedIndexAssignmentLeavesSiblingsUntouched(t *testing.T) {
	src := `set x to NewArrayDefault(3, 0)
set x[0] to 1
set x[1] to NewArrayDefault(3, 0)
set x[1][0] to 10
set x[1][1] to 20
set x[1][2] to 30
set x[2] to 3
set x[1][1] to 99
call Info(ToString(x[1][0]))
call Info(ToString(x[1][1]))
call Info(ToString(x[1][2]))
call Info(ToString(x[0]))`
	out := runProgram(t, src)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{"INFO: 10", "INFO: 99", "INFO: 30", "INFO: 1"}, lines)
}

func TestAssigningIndexIntoNonArrayRaisesTypedOperationError(t *testing.T) {
	src := `set x to 3
set x[2] to 5`
	ctx, _ := newProgramContext()
	p := scriptparser.New("<test>", src, ctx.Global, ctx.Local)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	_, err = prog.Execute(ctx)
	assert.Error(t, err)
}
