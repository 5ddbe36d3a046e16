package stdlib

import (
	"fmt"

	parse "github.com/cellscript/cellscript/lang/script/parser"
	"github.com/cellscript/cellscript/lang/scope"
)

// Aggregates is the bundled standard-library source: MAX, MIN, SUM, COUNT
// and AVERAGE are not native Go functions but ordinary Script functions,
// installed into the context's local scope by parsing and running this
// program once at Install time, grounded on OddsAndEnds/StdLib.cpp's
// STDLIB constant (the C++ engine's own bundled-source standard library).
// Each takes a single collection argument x and walks it with `for item in
// x do`, recursing into nested CellRanges and unwrapping CellRefs via
// EvalCell, accumulating only Floats. MAX and MIN return the string
// "Empty" when they see no Floats at all, matching the original's untyped
// placeholder result; SUM and COUNT return 0 in that case.
const Aggregates = `
function MAX (x) is
   set result to "Empty"
   set found to 0
   for item in x do
      set temp to item
      if IsCellRef(item) then
         set temp to EvalCell(item)
      end
      if IsFloat(temp) then
         if found then
            set result to Max(result, temp)
         else
            set result to temp
            set found to 1
         end
      elseif IsCellRange(temp) then
         set temp to MAX(temp)
         if not IsString(temp) then
            if found then
               set result to Max(result, temp)
            else
               set result to temp
               set found to 1
            end
         end
      end
   end
   return result
end

function MIN (x) is
   set result to "Empty"
   set found to 0
   for item in x do
      set temp to item
      if IsCellRef(item) then
         set temp to EvalCell(item)
      end
      if IsFloat(temp) then
         if found then
            set result to Min(result, temp)
         else
            set result to temp
            set found to 1
         end
      elseif IsCellRange(temp) then
         set temp to MIN(temp)
         if not IsString(temp) then
            if found then
               set result to Min(result, temp)
            else
               set result to temp
               set found to 1
            end
         end
      end
   end
   return result
end

function SUM (x) is
   set result to 0
   for item in x do
      set temp to item
      if IsCellRef(item) then
         set temp to EvalCell(item)
      end
      if IsFloat(temp) then
         set result to result + temp
      elseif IsCellRange(temp) then
         set result to result + SUM(temp)
      end
   end
   return result
end

function COUNT (x) is
   set result to 0
   for item in x do
      set temp to item
      if IsCellRef(item) then
         set temp to EvalCell(item)
      end
      if IsFloat(temp) then
         set result to result + 1
      elseif IsCellRange(temp) then
         set result to result + COUNT(temp)
      end
   end
   return result
end

function AVERAGE (x) is
   return SUM(x) / COUNT(x)
end
`

// installAggregates parses and runs the Aggregates source once, declaring
// MAX/MIN/SUM/COUNT/AVERAGE as ordinary Script functions in ctx.Local —
// the same scope a caller's own top-level `set` statements land in, so a
// program parsed afterward against the same Context resolves them exactly
// like any other global the caller defined.
func installAggregates(ctx *scope.Context) {
	p := parse.New("<aggregates>", Aggregates, ctx.Global, ctx.Local)
	prog, err := p.ParseProgram()
	if err != nil {
		panic(fmt.Errorf("stdlib: bundled Aggregates source failed to parse: %w", err))
	}
	if _, err := prog.Execute(ctx); err != nil {
		panic(fmt.Errorf("stdlib: bundled Aggregates source failed to run: %w", err))
	}
}
