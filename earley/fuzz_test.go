package earley

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/scanner"
)

// The parser must survive arbitrary input, and for accepted input the
// derivation tree must reproduce it exactly.
func FuzzParser(f *testing.F) {
	b := grammar.NewGrammarBuilder("Fuzz-G")
	b.LHS("Expr").N("Expr").T("+", '+').N("Term").End()
	b.LHS("Expr").N("Term").End()
	b.LHS("Term").T("(", '(').N("Expr").T(")", ')').End()
	b.LHS("Term").T("x", 'x').End()
	g, err := b.Grammar()
	if err != nil {
		f.Fatal(err)
	}
	ga := grammar.Analyze(g)
	for _, seed := range []string{"x", "x+x", "(x)", "((x+x)+x)", "x+", "(", "zzz", ""} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		teardown := gotestingadapter.QuickConfig(t, "grift.earley")
		defer teardown()
		parser := NewParser(ga)
		accept, err := parser.Parse(scanner.StringsTokenizer(input, nil))
		if err != nil || !accept {
			return
		}
		if text := parser.Tree().Text(); text != input {
			t.Errorf("Tree of accepted input reads %q, expected %q", text, input)
		}
	})
}
