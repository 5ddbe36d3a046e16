// Package grammar holds the EBNF grammars for Script and Cell source
// syntax as a standalone artifact, parsed and verified for
// well-formedness rather than left as unchecked prose.
package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

func TestEBNF(t *testing.T) {
	cases := []struct {
		filename string
		start    string
	}{
		{"grammar.ebnf", "Program"},
		{"grammar_cell.ebnf", "Formula"},
	}
	for _, c := range cases {
		t.Run(c.filename, func(t *testing.T) {
			f, err := os.Open(c.filename)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			g, err := ebnf.Parse(c.filename, f)
			if err != nil {
				t.Fatal(err)
			}
			if err := ebnf.Verify(g, c.start); err != nil {
				t.Fatal(err)
			}
		})
	}
}
