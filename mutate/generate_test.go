package mutate

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/grift/earley"
	"github.com/npillmayer/grift/grammar"
	"github.com/npillmayer/grift/scanner"
)

// A small recursive expression grammar over single-rune terminals, so that
// generated strings can be re-parsed with the string-level tokenizer.
//
//     Expr ::= Expr '+' Term  |  Term
//     Term ::= '(' Expr ')'   |  'x'
//
func makeTestGrammar(t *testing.T) *grammar.Analysis {
	b := grammar.NewGrammarBuilder("Gen-G")
	b.LHS("Expr").N("Expr").T("+", '+').N("Term").End()
	b.LHS("Expr").N("Term").End()
	b.LHS("Term").T("(", '(').N("Expr").T(")", ')').End()
	b.LHS("Term").T("x", 'x').End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return grammar.Analyze(g)
}

func accepts(t *testing.T, ga *grammar.Analysis, input string) bool {
	parser := earley.NewParser(ga)
	accept, err := parser.Parse(scanner.StringsTokenizer(input, nil))
	if err != nil {
		t.Logf("parse of %q: %v", input, err)
		return false
	}
	return accept
}

func TestGenerateTerminates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	gen := NewGenerator(ga, rand.NewSource(1))
	for i := 0; i < 20; i++ {
		tr, err := gen.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if tr.Symbol != "S'" {
			t.Errorf("Expected generated tree #%d to be rooted at S', is %s", i, tr.Symbol)
		}
		if tr.Text() == "" {
			t.Errorf("Expected generated tree #%d to have a non-empty yield", i)
		}
	}
}

func TestGenerateParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	gen := NewGenerator(ga, rand.NewSource(2))
	for i := 0; i < 20; i++ {
		tr, err := gen.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if !accepts(t, ga, tr.Text()) {
			t.Errorf("Expected generated string #%d to parse, got %q", i, tr.Text())
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	ga := makeTestGrammar(t)
	gen1 := NewGenerator(ga, rand.NewSource(7))
	gen2 := NewGenerator(ga, rand.NewSource(7))
	for i := 0; i < 5; i++ {
		t1, err1 := gen1.Generate()
		t2, err2 := gen2.Generate()
		if err1 != nil || err2 != nil {
			t.Fatal(err1, err2)
		}
		if t1.Fingerprint() != t2.Fingerprint() {
			t.Errorf("Expected identical seeds to generate identical trees (#%d)", i)
		}
	}
}

func TestGenerateUnproductive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	// U is unproductive: every rule for U mentions U again
	b := grammar.NewGrammarBuilder("Unprod-G")
	b.LHS("U").T("u", 'u').N("U").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := grammar.Analyze(g)
	gen := NewGenerator(ga, rand.NewSource(3))
	if _, err := gen.Generate(); err == nil {
		t.Errorf("Expected generation from unproductive grammar to fail")
	}
}

func TestGenerateTokenClasses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	b := grammar.NewGrammarBuilder("Classes-G")
	b.LHS("Pair").T("id", scanner.Ident).T("=", '=').T("number", scanner.Int).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := grammar.Analyze(g)
	gen := NewGenerator(ga, rand.NewSource(4))
	tr, err := gen.Generate()
	if err != nil {
		t.Fatal(err)
	}
	leaves := tr.Leaves(nil)
	if len(leaves) != 3 {
		t.Fatalf("Expected 3 leaves, got %d", len(leaves))
	}
	if leaves[0].Lexeme == "" || leaves[2].Lexeme == "" {
		t.Errorf("Expected synthesized lexemes for token classes, got %q and %q",
			leaves[0].Lexeme, leaves[2].Lexeme)
	}
	if leaves[1].Lexeme != "=" {
		t.Errorf("Expected literal lexeme '=', got %q", leaves[1].Lexeme)
	}
}

// The #eof pseudo-terminal marks the end of input and must not leak into
// the yield of a generated tree.
func TestGenerateExplicitEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.mutate")
	defer teardown()
	//
	b := grammar.NewGrammarBuilder("EOF-G")
	b.LHS("S").T("x", 'x').EOF()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := grammar.Analyze(g)
	gen := NewGenerator(ga, rand.NewSource(5))
	tr, err := gen.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Text() != "x" {
		t.Errorf("Expected yield 'x', got %q", tr.Text())
	}
	if !accepts(t, ga, tr.Text()) {
		t.Errorf("Expected generated string to parse, got %q", tr.Text())
	}
}
