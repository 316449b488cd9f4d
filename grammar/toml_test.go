package grammar

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const exprTOML = `
name  = "expr"
start = "Sum"

[rules]
Sum     = [["<Sum>", "+", "<Product>"], ["<Product>"]]
Product = [["<Product>", "*", "<Factor>"], ["<Factor>"]]
Factor  = [["(", "<Sum>", ")"], ["<digit>"]]
digit   = [["0"], ["1"], ["2"], ["3"], ["4"], ["5"], ["6"], ["7"], ["8"], ["9"]]
`

func TestLoadTOML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.grammar")
	defer teardown()
	//
	g, err := LoadTOML(strings.NewReader(exprTOML))
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "expr" {
		t.Errorf("Expected grammar name 'expr', is %q", g.Name)
	}
	// augmented start + 2 + 2 + 2 + 10
	if g.Size() != 17 {
		t.Errorf("Expected 17 rules, got %d", g.Size())
	}
	if g.Rule(1).LHS.Name != "Sum" {
		t.Errorf("Expected first user rule to derive the start symbol, is %v", g.Rule(1))
	}
	if sym := g.SymbolByName("+"); sym == nil || !sym.IsTerminal() || sym.Value != '+' {
		t.Errorf("Expected literal terminal '+', is %v", sym)
	}
}

func TestLoadTOMLDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.grammar")
	defer teardown()
	//
	g1, err := LoadTOML(strings.NewReader(exprTOML))
	if err != nil {
		t.Fatal(err)
	}
	g2, err := LoadTOML(strings.NewReader(exprTOML))
	if err != nil {
		t.Fatal(err)
	}
	if g1.Fingerprint() != g2.Fingerprint() {
		t.Errorf("Expected TOML loading to be deterministic")
	}
}

func TestLoadTOMLClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.grammar")
	defer teardown()
	//
	const bad = `
start = "S"
[rules]
S = [["<Missing>"]]
`
	if _, err := LoadTOML(strings.NewReader(bad)); err == nil {
		t.Errorf("Expected closure violation for undefined non-terminal")
	}
}

func TestLoadTOMLExternal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.grammar")
	defer teardown()
	//
	const ext = `
start = "S"
[rules]
S = [["<number>", "+", "<number>"]]
[externals]
number = -3
`
	g, err := LoadTOML(strings.NewReader(ext))
	if err != nil {
		t.Fatal(err)
	}
	if sym := g.SymbolByName("number"); sym == nil || !sym.IsTerminal() || sym.Value != -3 {
		t.Errorf("Expected external terminal 'number' with token type -3, is %v", sym)
	}
}

func TestLoadTOMLPatterns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "grift.grammar")
	defer teardown()
	//
	const pat = `
start = "S"
[rules]
S = [["<number>", "+", "<number>"]]
[patterns]
number = "[0-9]+"
`
	g, err := LoadTOML(strings.NewReader(pat))
	if err != nil {
		t.Fatal(err)
	}
	sym := g.SymbolByName("number")
	if sym == nil || !sym.IsTerminal() || sym.Value < LiteralType {
		t.Errorf("Expected pattern terminal 'number' with a synthesized token type, is %v", sym)
	}
	if regex := g.Patterns()["number"]; regex != "[0-9]+" {
		t.Errorf("Expected pattern '[0-9]+' for 'number', got %q", regex)
	}
}
